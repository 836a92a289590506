package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
)

func testRSAPublicKey(t *testing.T) *rsa.PublicKey {
	t.Helper()
	pubDER, _ := testKeys(t)
	pub, err := ParsePublicKey(pubDER, KeyFormatSPKI)
	if err != nil {
		t.Fatal(err)
	}
	return pub
}

func TestDetectKeyFormat(t *testing.T) {
	pub := testRSAPublicKey(t)

	spki, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}
	pkcs1 := x509.MarshalPKCS1PublicKey(pub)

	tests := []struct {
		name    string
		der     []byte
		want    KeyFormat
		wantErr error
	}{
		{"spki", spki, KeyFormatSPKI, nil},
		{"raw rsa", pkcs1, KeyFormatRSAPublicKey, nil},
		{"sequence tag but garbage", []byte{0x30, 0x01, 0x02}, KeyFormatRSAPublicKey, nil},
		{"not asn1", []byte("-----nonsense-----"), KeyFormatUnknown, ErrUnknownKeyFormat},
		{"empty", nil, KeyFormatUnknown, ErrUnknownKeyFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKeyFormat(tt.der)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DetectKeyFormat() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectKeyFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectKeyFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectKeyFormatPEM(t *testing.T) {
	pub := testRSAPublicKey(t)

	spki, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}

	spkiPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: spki})
	pkcs1PEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(pub)})
	// Banner decides the format even when the payload would not parse
	bannerOnly := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: []byte("not a key")})

	tests := []struct {
		name    string
		data    []byte
		want    KeyFormat
		wantErr error
	}{
		{"public key banner", spkiPEM, KeyFormatSPKI, nil},
		{"rsa public key banner", pkcs1PEM, KeyFormatRSAPublicKey, nil},
		{"banner without valid payload", bannerOnly, KeyFormatRSAPublicKey, nil},
		{"unknown banner", pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: spki}), KeyFormatUnknown, ErrUnknownKeyFormat},
		{"not pem", []byte("plain text"), KeyFormatUnknown, ErrUnknownKeyFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKeyFormatPEM(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DetectKeyFormatPEM() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectKeyFormatPEM() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectKeyFormatPEM() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyFormatString(t *testing.T) {
	if KeyFormatSPKI.String() != "SPKI" {
		t.Errorf("KeyFormatSPKI.String() = %q", KeyFormatSPKI.String())
	}
	if KeyFormatRSAPublicKey.String() != "RSA_PUBLIC_KEY" {
		t.Errorf("KeyFormatRSAPublicKey.String() = %q", KeyFormatRSAPublicKey.String())
	}
	if KeyFormatUnknown.String() != "UNKNOWN" {
		t.Errorf("KeyFormatUnknown.String() = %q", KeyFormatUnknown.String())
	}
}
