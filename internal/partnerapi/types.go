package partnerapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/velomax/partner-client/pkg/enums"
)

// UserProfile is the server-owned partner document. The client treats it as
// partially known: nested blocks are pointers so a missing path decodes to nil
// instead of a zero struct pretending to be data.
type UserProfile struct {
	ID              string           `json:"id"`
	PhoneNumber     string           `json:"phoneNumber"`
	Email           string           `json:"email,omitempty"`
	Role            string           `json:"role,omitempty"`
	DeliveryBoyInfo *DeliveryBoyInfo `json:"deliveryBoyInfo,omitempty"`
	CreatedAt       *time.Time       `json:"createdAt,omitempty"`
}

// DeliveryBoyInfo groups the onboarding sub-documents.
type DeliveryBoyInfo struct {
	PersonalInfo       *PersonalInfo            `json:"personalInfo,omitempty"`
	Identification     *Identification          `json:"identification,omitempty"`
	VehicleInfo        *VehicleInfo             `json:"vehicleInfo,omitempty"`
	BankDetails        *BankDetails             `json:"bankDetails,omitempty"`
	Documents          []Document               `json:"documents,omitempty"`
	VerificationStatus enums.VerificationStatus `json:"verificationStatus,omitempty"`
}

type PersonalInfo struct {
	FullName    string `json:"fullName,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
}

type Identification struct {
	AadhaarNumber string `json:"aadhaarNumber,omitempty"`
	PANNumber     string `json:"panNumber,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
}

type VehicleInfo struct {
	VehicleType        string `json:"vehicleType,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Model              string `json:"model,omitempty"`
}

// BankDetails is both read from the profile and sent on update.
type BankDetails struct {
	AccountHolder string `json:"accountHolder" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required,min=9,max=18"`
	IFSC          string `json:"ifsc" validate:"required"`
	BankName      string `json:"bankName,omitempty"`
}

type Document struct {
	Type       enums.DocumentType `json:"type"`
	URL        string             `json:"url"`
	UploadedAt *time.Time         `json:"uploadedAt,omitempty"`
}

// Verification reads the nested verification status defensively; any missing
// path reports pending so an incomplete profile never unlocks the dashboard.
func (u *UserProfile) Verification() enums.VerificationStatus {
	if u == nil || u.DeliveryBoyInfo == nil || !u.DeliveryBoyInfo.VerificationStatus.IsValid() {
		return enums.VerificationStatusPending
	}
	return u.DeliveryBoyInfo.VerificationStatus
}

// InitialRoute picks the post-login screen for this profile.
func (u *UserProfile) InitialRoute() enums.Route {
	return u.Verification().InitialRoute()
}

// Location is a GPS fix attached to availability updates.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Order is one delivery as the history endpoint reports it.
type Order struct {
	ID            string               `json:"id"`
	Status        enums.DeliveryStatus `json:"status"`
	PickupAddress string               `json:"pickupAddress,omitempty"`
	DropAddress   string               `json:"dropAddress,omitempty"`
	CustomerName  string               `json:"customerName,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	DistanceKM    float64              `json:"distanceKm,omitempty"`
	AssignedAt    *time.Time           `json:"assignedAt,omitempty"`
	DeliveredAt   *time.Time           `json:"deliveredAt,omitempty"`
}

// EarningsSummary aggregates payouts over one period.
type EarningsSummary struct {
	Period          enums.EarningsPeriod `json:"period"`
	TotalEarnings   decimal.Decimal      `json:"totalEarnings"`
	TotalDeliveries int                  `json:"totalDeliveries"`
	Incentives      decimal.Decimal      `json:"incentives"`
	Deductions      decimal.Decimal      `json:"deductions"`
}

// Dashboard is the landing-screen snapshot.
type Dashboard struct {
	TodayDeliveries int                      `json:"todayDeliveries"`
	TodayEarnings   decimal.Decimal          `json:"todayEarnings"`
	Availability    enums.AvailabilityStatus `json:"availability"`
	ActiveOrder     *Order                   `json:"activeOrder,omitempty"`
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token string
	User  *UserProfile
}

// RegisterParams is the signup payload.
type RegisterParams struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"fullName" validate:"required"`
	City        string `json:"city" validate:"required"`
	VehicleType string `json:"vehicleType" validate:"required,oneof=bike scooter bicycle car"`
}

// ProfileUpdate carries a partial update. Keys may be dotted paths
// ("deliveryBoyInfo.personalInfo.city"); the server owns merge semantics.
type ProfileUpdate map[string]any

// HistoryParams filters the delivery history listing.
type HistoryParams struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

// IssueReport describes a problem with one order.
type IssueReport struct {
	OrderID     string `json:"orderId" validate:"required"`
	Issue       string `json:"issue" validate:"required"`
	Description string `json:"description,omitempty"`
}
