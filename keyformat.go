package sealmail

import (
	"github.com/sealmail/client-go/internal/crypto"
)

// PublicKeyFormat identifies the encoding of public key bytes.
type PublicKeyFormat string

const (
	// KeyFormatSPKI is the X.509 SubjectPublicKeyInfo encoding produced by
	// GenerateKeyPair.
	KeyFormatSPKI PublicKeyFormat = "SPKI"
	// KeyFormatRSAPublicKey is the PKCS#1 RSAPublicKey encoding used by
	// older key generations.
	KeyFormatRSAPublicKey PublicKeyFormat = "RSA_PUBLIC_KEY"
)

// Algorithm identifies an encryption scheme on the wire.
type Algorithm string

const (
	// AlgorithmAESCBC is AES-256-CBC with PKCS#7 padding.
	AlgorithmAESCBC Algorithm = crypto.AlgorithmAESCBCPKCS7
	// AlgorithmHybridRSA is RSA-OAEP wrapping an ephemeral AES-CBC key.
	AlgorithmHybridRSA Algorithm = crypto.AlgorithmRSAOAEPAESCBC
)

// DetectPublicKeyFormat inspects DER public key bytes and reports their
// encoding. SPKI is tried first; bytes that fail SPKI parsing but carry an
// ASN.1 SEQUENCE tag are treated as PKCS#1. Returns ErrUnsupportedKeyFormat
// when neither encoding matches.
func DetectPublicKeyFormat(der []byte) (PublicKeyFormat, error) {
	f, err := crypto.DetectKeyFormat(der)
	if err != nil {
		return "", wrapError(err)
	}
	return publicKeyFormat(f)
}

// DetectPublicKeyFormatPEM is DetectPublicKeyFormat for PEM-armored keys.
// The PEM banner decides the format; the decoded bytes are then verified
// against it.
func DetectPublicKeyFormatPEM(data []byte) (PublicKeyFormat, error) {
	f, err := crypto.DetectKeyFormatPEM(data)
	if err != nil {
		return "", wrapError(err)
	}
	return publicKeyFormat(f)
}

func publicKeyFormat(f crypto.KeyFormat) (PublicKeyFormat, error) {
	switch f {
	case crypto.KeyFormatSPKI:
		return KeyFormatSPKI, nil
	case crypto.KeyFormatRSAPublicKey:
		return KeyFormatRSAPublicKey, nil
	}
	return "", ErrUnsupportedKeyFormat
}

func keyFormatInternal(f PublicKeyFormat) (crypto.KeyFormat, error) {
	switch f {
	case KeyFormatSPKI:
		return crypto.KeyFormatSPKI, nil
	case KeyFormatRSAPublicKey:
		return crypto.KeyFormatRSAPublicKey, nil
	}
	return crypto.KeyFormatUnknown, ErrUnsupportedKeyFormat
}
