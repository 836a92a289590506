package crypto

import (
	"bytes"
	"errors"
	"testing"
)

// testKeyPair generates a key pair once per test binary; RSA generation is
// slow enough to dominate the package's test time otherwise.
var testPublic, testPrivate []byte

func testKeys(t *testing.T) (pub, priv []byte) {
	t.Helper()
	if testPublic == nil {
		var err error
		testPublic, testPrivate, err = GenerateRSAKeyPair()
		if err != nil {
			t.Fatalf("GenerateRSAKeyPair() error = %v", err)
		}
	}
	return testPublic, testPrivate
}

func TestHybridEncrypt_RoundTrip(t *testing.T) {
	pubDER, privDER := testKeys(t)

	pub, err := ParsePublicKey(pubDER, KeyFormatSPKI)
	if err != nil {
		t.Fatalf("ParsePublicKey() error = %v", err)
	}
	priv, err := ParsePrivateKey(privDER)
	if err != nil {
		t.Fatalf("ParsePrivateKey() error = %v", err)
	}

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"message key", make([]byte, AESKeySize)},
		{"larger than modulus", make([]byte, 1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped, err := HybridEncrypt(pub, tt.plaintext)
			if err != nil {
				t.Fatalf("HybridEncrypt() error = %v", err)
			}

			if len(wrapped) < priv.Size()+2*AESBlockSize {
				t.Fatalf("wrapped length = %d, want at least %d", len(wrapped), priv.Size()+2*AESBlockSize)
			}

			out, err := HybridDecrypt(priv, wrapped)
			if err != nil {
				t.Fatalf("HybridDecrypt() error = %v", err)
			}

			if !bytes.Equal(out, tt.plaintext) {
				t.Errorf("decrypted = %v, want %v", out, tt.plaintext)
			}
		})
	}
}

func TestHybridDecrypt_WrongKey(t *testing.T) {
	pubDER, _ := testKeys(t)
	pub, err := ParsePublicKey(pubDER, KeyFormatSPKI)
	if err != nil {
		t.Fatal(err)
	}

	wrapped, err := HybridEncrypt(pub, []byte("message key bytes"))
	if err != nil {
		t.Fatal(err)
	}

	_, otherPriv, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	priv, err := ParsePrivateKey(otherPriv)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := HybridDecrypt(priv, wrapped); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestHybridDecrypt_TooShort(t *testing.T) {
	_, privDER := testKeys(t)
	priv, err := ParsePrivateKey(privDER)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := HybridDecrypt(priv, make([]byte, 64)); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestParsePublicKey_FormatMismatch(t *testing.T) {
	pubDER, _ := testKeys(t)

	// SPKI bytes do not parse under the raw RSA format
	if _, err := ParsePublicKey(pubDER, KeyFormatRSAPublicKey); err == nil {
		t.Error("expected error parsing SPKI bytes as PKCS#1")
	}

	if _, err := ParsePublicKey(pubDER, KeyFormatUnknown); !errors.Is(err, ErrUnknownKeyFormat) {
		t.Errorf("expected ErrUnknownKeyFormat, got %v", err)
	}
}
