package phone

import (
	"testing"

	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "9876543210", want: "+919876543210"},
		{in: "98765 43210", want: "+919876543210"},
		{in: "098-7654-3210", want: "+919876543210"},
		{in: "919876543210", want: "+919876543210"},
		{in: "+919876543210", want: "+919876543210"},
		{in: "+14155552671", want: "+14155552671"},
		{in: "", wantErr: true},
		{in: "12345", wantErr: true},
		{in: "abcdefghij", wantErr: true},
		{in: "1234567890", wantErr: true}, // starts below 6
		{in: "+12", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Normalize(%q) expected error, got %q", tt.in, got)
			}
			if pkgerrors.As(err).Kind() != pkgerrors.KindValidation {
				t.Fatalf("Normalize(%q) expected validation kind, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
