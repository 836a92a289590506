package sealmail

import (
	"fmt"
)

// SealedAttribute is one encrypted value, self-describing enough to be
// opened later: the key that sealed it, the algorithm used, and the content
// type of the plaintext.
type SealedAttribute struct {
	KeyID         string    `json:"keyId"`
	Algorithm     Algorithm `json:"algorithm"`
	PlainTextType string    `json:"plainTextType"`
	SealedData    []byte    `json:"sealedData"`
}

// Sealer encrypts and decrypts individual attributes against keystore keys.
// Symmetric keys seal with AES-CBC-PKCS7; key pairs seal with the hybrid
// RSA scheme. The algorithm is stamped into the attribute so Unseal can
// verify it still matches the key.
type Sealer struct {
	keys *KeyStore
}

// NewSealer creates a Sealer backed by the given KeyStore.
func NewSealer(keys *KeyStore) *Sealer {
	return &Sealer{keys: keys}
}

// Seal encrypts plaintext under the key stored at keyID. plainTextType
// describes the plaintext (a MIME type, typically) and travels with the
// sealed value.
func (s *Sealer) Seal(keyID string, plaintext []byte, plainTextType string) (*SealedAttribute, error) {
	kind, ok := s.keys.KeyKind(keyID)
	if !ok {
		return nil, &KeyOperationError{Op: "seal", KeyID: keyID, Err: ErrKeyNotFound}
	}

	switch kind {
	case KeyKindSymmetric:
		sealed, err := s.keys.EncryptWithSymmetricKeyID(keyID, plaintext, nil)
		if err != nil {
			return nil, err
		}
		return &SealedAttribute{
			KeyID:         keyID,
			Algorithm:     AlgorithmAESCBC,
			PlainTextType: plainTextType,
			SealedData:    sealed,
		}, nil

	case KeyKindPair:
		pair, err := s.keys.KeyPairWithID(keyID)
		if err != nil {
			return nil, err
		}
		sealed, err := s.keys.EncryptWithPublicKey(pair.PublicKey, plaintext, pair.Format, AlgorithmHybridRSA)
		if err != nil {
			return nil, err
		}
		return &SealedAttribute{
			KeyID:         keyID,
			Algorithm:     AlgorithmHybridRSA,
			PlainTextType: plainTextType,
			SealedData:    sealed,
		}, nil
	}

	return nil, &KeyOperationError{
		Op:    "seal",
		KeyID: keyID,
		Err:   fmt.Errorf("unknown key kind %q", kind),
	}
}

// SealWithCurrentKey seals plaintext under the keystore's current symmetric
// key. Fails with ErrNoCurrentSymmetricKey when no key has been generated.
func (s *Sealer) SealWithCurrentKey(plaintext []byte, plainTextType string) (*SealedAttribute, error) {
	keyID, ok := s.keys.CurrentSymmetricKeyID()
	if !ok {
		return nil, &KeyOperationError{Op: "seal", Err: ErrNoCurrentSymmetricKey}
	}
	return s.Seal(keyID, plaintext, plainTextType)
}

// Unseal decrypts a sealed attribute. The attribute's algorithm must match
// the kind of the key it names; a missing key or a mismatch fails with an
// UnsealError, which matches ErrUnsealingFailed and leaves the caller free
// to continue with other attributes.
func (s *Sealer) Unseal(attr *SealedAttribute) ([]byte, error) {
	kind, ok := s.keys.KeyKind(attr.KeyID)
	if !ok {
		return nil, &UnsealError{KeyID: attr.KeyID, Err: ErrKeyNotFound}
	}

	switch {
	case kind == KeyKindSymmetric && attr.Algorithm == AlgorithmAESCBC:
		plaintext, err := s.keys.DecryptWithSymmetricKeyID(attr.KeyID, attr.SealedData)
		if err != nil {
			return nil, &UnsealError{KeyID: attr.KeyID, Err: err}
		}
		return plaintext, nil

	case kind == KeyKindPair && attr.Algorithm == AlgorithmHybridRSA:
		plaintext, err := s.keys.DecryptWithPrivateKey(attr.KeyID, attr.SealedData, AlgorithmHybridRSA)
		if err != nil {
			return nil, &UnsealError{KeyID: attr.KeyID, Err: err}
		}
		return plaintext, nil
	}

	return nil, &UnsealError{
		KeyID: attr.KeyID,
		Err:   fmt.Errorf("algorithm %q does not match key kind %q", attr.Algorithm, kind),
	}
}

// UnsealResult is the outcome of one attribute in an UnsealAll batch.
type UnsealResult struct {
	Index     int
	Plaintext []byte
	Err       error
}

// UnsealAll opens a batch of sealed attributes. One failing attribute never
// aborts the batch; its slot carries the error instead of plaintext.
func (s *Sealer) UnsealAll(attrs []SealedAttribute) []UnsealResult {
	results := make([]UnsealResult, len(attrs))
	for i := range attrs {
		plaintext, err := s.Unseal(&attrs[i])
		results[i] = UnsealResult{Index: i, Plaintext: plaintext, Err: err}
	}
	return results
}
