package enums

import "fmt"

// VerificationStatus captures the onboarding review state of a partner account.
// Transitions happen server-side only; the client just reads the value.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

var validVerificationStatuses = []VerificationStatus{
	VerificationStatusPending,
	VerificationStatusApproved,
	VerificationStatusRejected,
}

// Route names the screen the app lands on after login.
type Route string

const (
	RouteDashboard       Route = "dashboard"
	RoutePendingApproval Route = "pending_approval"
	RouteAccountRejected Route = "account_rejected"
)

// String implements fmt.Stringer.
func (v VerificationStatus) String() string {
	return string(v)
}

// IsValid reports whether the value matches a known VerificationStatus.
func (v VerificationStatus) IsValid() bool {
	for _, candidate := range validVerificationStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// InitialRoute picks the post-login landing screen for the status. Unknown
// values fall back to the pending screen so an unverified account never lands
// on the dashboard.
func (v VerificationStatus) InitialRoute() Route {
	switch v {
	case VerificationStatusApproved:
		return RouteDashboard
	case VerificationStatusRejected:
		return RouteAccountRejected
	default:
		return RoutePendingApproval
	}
}

// ParseVerificationStatus converts raw input into a VerificationStatus.
func ParseVerificationStatus(value string) (VerificationStatus, error) {
	for _, candidate := range validVerificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification status %q", value)
}
