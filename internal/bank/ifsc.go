package bank

import (
	"regexp"
	"strings"
)

// IFSC format: four-letter bank code, a literal zero, six alphanumerics.
var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// bankNamesByCode maps the four-letter IFSC prefix to the bank's display name.
// The bank-details form prefills from this table; unknown prefixes leave the
// field empty and user-editable.
var bankNamesByCode = map[string]string{
	"HDFC": "HDFC Bank",
	"SBIN": "State Bank of India",
	"ICIC": "ICICI Bank",
	"UTIB": "Axis Bank",
	"KKBK": "Kotak Mahindra Bank",
	"PUNB": "Punjab National Bank",
	"BARB": "Bank of Baroda",
	"IDFB": "IDFC First Bank",
	"YESB": "Yes Bank",
	"INDB": "IndusInd Bank",
	"CNRB": "Canara Bank",
	"UBIN": "Union Bank of India",
	"IOBA": "Indian Overseas Bank",
	"FDRL": "Federal Bank",
	"RATN": "RBL Bank",
}

// IsValidIFSC reports whether the code matches the IFSC format.
func IsValidIFSC(code string) bool {
	return ifscPattern.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

// NameForIFSC derives the bank name from an IFSC code. Returns "" for
// malformed codes and unknown prefixes.
func NameForIFSC(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !ifscPattern.MatchString(normalized) {
		return ""
	}
	return bankNamesByCode[normalized[:4]]
}
