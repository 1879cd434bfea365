package bank

import "testing"

func TestNameForIFSC(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "HDFC0001234", want: "HDFC Bank"},
		{code: "hdfc0001234", want: "HDFC Bank"},
		{code: " SBIN0005943 ", want: "State Bank of India"},
		{code: "ICIC0000001", want: "ICICI Bank"},
		{code: "ZZZZ0000000", want: ""}, // unknown prefix
		{code: "HDFC123", want: ""},     // malformed
		{code: "HDFC1001234", want: ""}, // fifth char must be zero
		{code: "", want: ""},
	}

	for _, tt := range tests {
		if got := NameForIFSC(tt.code); got != tt.want {
			t.Fatalf("NameForIFSC(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestIsValidIFSC(t *testing.T) {
	if !IsValidIFSC("HDFC0001234") {
		t.Fatal("expected valid IFSC to pass")
	}
	if !IsValidIFSC("ZZZZ0000000") {
		t.Fatal("well-formed unknown-bank codes are still valid IFSCs")
	}
	if IsValidIFSC("HDFC123") {
		t.Fatal("expected short code to fail")
	}
	if IsValidIFSC("HDFCX001234") {
		t.Fatal("expected non-zero fifth character to fail")
	}
}
