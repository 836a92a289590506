package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
)

// KeyFormat identifies the encoding of public key bytes.
type KeyFormat int

const (
	// KeyFormatUnknown means the bytes match no supported encoding.
	KeyFormatUnknown KeyFormat = iota
	// KeyFormatSPKI is X.509 SubjectPublicKeyInfo over RSA.
	KeyFormatSPKI
	// KeyFormatRSAPublicKey is a bare PKCS#1 RSAPublicKey sequence.
	KeyFormatRSAPublicKey
)

// String returns the wire name of the format.
func (f KeyFormat) String() string {
	switch f {
	case KeyFormatSPKI:
		return "SPKI"
	case KeyFormatRSAPublicKey:
		return "RSA_PUBLIC_KEY"
	default:
		return "UNKNOWN"
	}
}

// asn1SequenceTag is the first byte of any DER-encoded SEQUENCE.
const asn1SequenceTag = 0x30

// DetectKeyFormat classifies raw public key bytes structurally.
//
// SPKI is attempted first. Bytes that start with an ASN.1 SEQUENCE tag but
// do not parse as SPKI are classified as a raw RSA public key: legacy
// clients shipped PKCS#1 keys with no algorithm envelope, so the tag check
// is deliberately the only requirement. Anything else is unknown.
func DetectKeyFormat(der []byte) (KeyFormat, error) {
	if pub, err := x509.ParsePKIXPublicKey(der); err == nil {
		if _, ok := pub.(*rsa.PublicKey); !ok {
			return KeyFormatUnknown, ErrNotRSAKey
		}
		return KeyFormatSPKI, nil
	}

	if len(der) > 0 && der[0] == asn1SequenceTag {
		return KeyFormatRSAPublicKey, nil
	}

	return KeyFormatUnknown, ErrUnknownKeyFormat
}

// DetectKeyFormatPEM classifies a PEM-encoded public key by its banner,
// with no byte sniffing.
func DetectKeyFormatPEM(data []byte) (KeyFormat, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return KeyFormatUnknown, ErrUnknownKeyFormat
	}

	switch block.Type {
	case "PUBLIC KEY":
		return KeyFormatSPKI, nil
	case "RSA PUBLIC KEY":
		return KeyFormatRSAPublicKey, nil
	default:
		return KeyFormatUnknown, ErrUnknownKeyFormat
	}
}
