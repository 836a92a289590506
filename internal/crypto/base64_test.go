package crypto

import (
	"bytes"
	"testing"
)

func TestDecodeBase64_Lenient(t *testing.T) {
	// 0xfb 0xff forces characters that differ between the standard and
	// URL-safe alphabets.
	raw := []byte{0xfb, 0xff, 0x00, 0x01, 0x02}

	tests := []struct {
		name    string
		encoded string
	}{
		{"standard padded", "+/8AAQI="},
		{"standard raw", "+/8AAQI"},
		{"url padded", "-_8AAQI="},
		{"url raw", "-_8AAQI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.encoded)
			if err != nil {
				t.Fatalf("DecodeBase64(%q) error = %v", tt.encoded, err)
			}
			if !bytes.Equal(got, raw) {
				t.Errorf("DecodeBase64(%q) = %v, want %v", tt.encoded, got, raw)
			}
		})
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	if _, err := DecodeBase64("!!not base64!!"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestToBase64_RoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xfe, 0xff}
	out, err := FromBase64(ToBase64(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("round trip = %v, want %v", out, raw)
	}
}
