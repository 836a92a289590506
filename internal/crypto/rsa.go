package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

// GenerateRSAKeyPair generates a new RSA key pair.
// The public key is returned in SPKI encoding, the private key in PKCS#8.
func GenerateRSAKeyPair() (publicKey, privateKey []byte, err error) {
	priv, err := rsa.GenerateKey(randSource(), RSAKeyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("generate rsa key: %w", err)
	}

	publicKey, err = x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal public key: %w", err)
	}

	privateKey, err = x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal private key: %w", err)
	}

	return publicKey, privateKey, nil
}

// ParsePublicKey decodes RSA public key bytes in the given format.
func ParsePublicKey(der []byte, format KeyFormat) (*rsa.PublicKey, error) {
	switch format {
	case KeyFormatSPKI:
		pub, err := x509.ParsePKIXPublicKey(der)
		if err != nil {
			return nil, fmt.Errorf("parse spki public key: %w", err)
		}
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, ErrNotRSAKey
		}
		return rsaPub, nil
	case KeyFormatRSAPublicKey:
		pub, err := x509.ParsePKCS1PublicKey(der)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs1 public key: %w", err)
		}
		return pub, nil
	default:
		return nil, ErrUnknownKeyFormat
	}
}

// ParsePrivateKey decodes an RSA private key in PKCS#8 or PKCS#1 encoding.
func ParsePrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrNotRSAKey
		}
		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// HybridEncrypt encrypts data under a recipient public key using the
// RSAEncryptionOAEPAESCBC scheme: a fresh AES-256 key is wrapped with
// RSA-OAEP(SHA-256) and the payload is encrypted under that key with
// AES-CBC-PKCS7.
//
// Output layout: OAEP block (modulus size) || iv (16) || ciphertext.
func HybridEncrypt(pub *rsa.PublicKey, data []byte) ([]byte, error) {
	ephemeral, err := GenerateAESKey()
	if err != nil {
		return nil, err
	}

	oaep, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, ephemeral, nil)
	if err != nil {
		return nil, fmt.Errorf("oaep encrypt: %w", err)
	}

	wrapped, err := EncryptAESCBC(ephemeral, data, nil)
	if err != nil {
		return nil, err
	}

	return append(oaep, wrapped...), nil
}

// HybridDecrypt reverses HybridEncrypt using the recipient private key.
func HybridDecrypt(priv *rsa.PrivateKey, data []byte) ([]byte, error) {
	oaepSize := priv.Size()
	if len(data) < oaepSize+2*AESBlockSize {
		return nil, ErrCiphertextTooShort
	}

	ephemeral, err := rsa.DecryptOAEP(sha256.New(), nil, priv, data[:oaepSize], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: oaep: %w", ErrDecryptionFailed, err)
	}

	return DecryptAESCBC(ephemeral, data[oaepSize:])
}
