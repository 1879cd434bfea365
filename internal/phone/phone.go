package phone

import (
	"strings"

	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

const indiaCountryCode = "+91"

// Normalize converts user-entered phone input into the E.164 form the API
// expects. Ten-digit Indian mobile numbers gain the +91 prefix; numbers that
// already carry a country code pass through; everything else is a validation
// error.
func Normalize(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", pkgerrors.New(pkgerrors.KindValidation, "phone number is required")
	}

	if strings.HasPrefix(cleaned, "+") {
		digits := cleaned[1:]
		if !isDigits(digits) || len(digits) < 10 || len(digits) > 15 {
			return "", pkgerrors.New(pkgerrors.KindValidation, "invalid phone number "+raw)
		}
		return cleaned, nil
	}

	if !isDigits(cleaned) {
		return "", pkgerrors.New(pkgerrors.KindValidation, "invalid phone number "+raw)
	}

	// Leading-zero trunk prefix on an 11-digit number.
	if len(cleaned) == 11 && cleaned[0] == '0' {
		cleaned = cleaned[1:]
	}
	// Bare country code without the plus.
	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		cleaned = cleaned[2:]
	}

	if len(cleaned) != 10 {
		return "", pkgerrors.New(pkgerrors.KindValidation, "invalid phone number "+raw)
	}
	// Indian mobile numbers start with 6-9.
	if cleaned[0] < '6' {
		return "", pkgerrors.New(pkgerrors.KindValidation, "invalid phone number "+raw)
	}

	return indiaCountryCode + cleaned, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
