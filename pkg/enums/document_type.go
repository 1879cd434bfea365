package enums

import "fmt"

// DocumentType names the verification documents a partner can upload.
type DocumentType string

const (
	DocumentTypeAadhaar        DocumentType = "aadhaar"
	DocumentTypePAN            DocumentType = "pan"
	DocumentTypeDrivingLicense DocumentType = "driving_license"
	DocumentTypeVehicleRC      DocumentType = "vehicle_rc"
	DocumentTypeAvatar         DocumentType = "avatar"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeAadhaar,
	DocumentTypePAN,
	DocumentTypeDrivingLicense,
	DocumentTypeVehicleRC,
	DocumentTypeAvatar,
}

// String implements fmt.Stringer.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid reports whether the value matches a known DocumentType.
func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
