package sealmail

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// KeyPair is the public half of a generated RSA key pair. The private key
// stays inside the provider.
type KeyPair struct {
	KeyID     string
	PublicKey []byte // SPKI DER
	Format    PublicKeyFormat
}

// currentKeyRef is the versioned current-symmetric-key pointer. The version
// makes concurrent rotations race-safe: a swap only lands if the pointer has
// not moved since the rotation began.
type currentKeyRef struct {
	id      string
	version uint64
}

// KeyStore manages key pairs and symmetric keys through a KeyStoreProvider.
// It adds identity (key IDs), current-key rotation, export/import, and
// error translation on top of the provider's raw storage. Safe for
// concurrent use.
type KeyStore struct {
	provider  KeyStoreProvider
	keyRingID string
	current   atomic.Pointer[currentKeyRef]
	log       logrus.FieldLogger
}

// NewKeyStore creates a KeyStore on top of the given provider.
func NewKeyStore(provider KeyStoreProvider, opts ...Option) *KeyStore {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.keyRingID == "" {
		cfg.keyRingID = uuid.NewString()
	}
	return &KeyStore{
		provider:  provider,
		keyRingID: cfg.keyRingID,
		log:       cfg.log,
	}
}

// KeyRingID returns the identifier recorded in key archives.
func (ks *KeyStore) KeyRingID() string {
	return ks.keyRingID
}

// GenerateKeyPair creates a new RSA key pair and returns its public half.
// The public key bytes are validated before the pair is handed out; a pair
// whose public key cannot be parsed back is deleted again rather than left
// behind as unusable material.
func (ks *KeyStore) GenerateKeyPair() (*KeyPair, error) {
	id := uuid.NewString()

	pub, err := ks.provider.GenerateKeyPair(id)
	if err != nil {
		return nil, &KeyOperationError{
			Op:    "generate",
			KeyID: id,
			Err:   fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err),
		}
	}

	if _, err := DetectPublicKeyFormat(pub); err != nil {
		if delErr := ks.provider.DeleteKeyPair(id); delErr != nil {
			ks.log.WithField("keyId", id).WithError(delErr).
				Warn("failed to roll back unusable key pair")
		}
		return nil, &KeyOperationError{
			Op:    "generate",
			KeyID: id,
			Err:   fmt.Errorf("%w: unusable public key: %v", ErrKeyGenerationFailed, err),
		}
	}

	ks.log.WithField("keyId", id).Debug("generated key pair")
	return &KeyPair{KeyID: id, PublicKey: pub, Format: KeyFormatSPKI}, nil
}

// KeyPairWithID returns the public half of a stored key pair.
func (ks *KeyStore) KeyPairWithID(id string) (*KeyPair, error) {
	pub, err := ks.provider.PublicKey(id)
	if err != nil {
		return nil, &KeyOperationError{Op: "fetch", KeyID: id, Err: err}
	}
	return &KeyPair{KeyID: id, PublicKey: pub, Format: KeyFormatSPKI}, nil
}

// DeleteKeyPair removes a stored key pair.
func (ks *KeyStore) DeleteKeyPair(id string) error {
	if err := ks.provider.DeleteKeyPair(id); err != nil {
		return &KeyOperationError{Op: "delete", KeyID: id, Err: err}
	}
	return nil
}

// GenerateCurrentSymmetricKey creates a new symmetric key and makes it the
// current one. The previous current key stays stored and keeps decrypting
// old data; rotation is non-destructive. Returns the new key's ID.
//
// Concurrent rotations are safe: each rotation lands exactly one new key,
// and the pointer only moves forward.
func (ks *KeyStore) GenerateCurrentSymmetricKey() (string, error) {
	for {
		old := ks.current.Load()

		id := uuid.NewString()
		if err := ks.provider.GenerateSymmetricKey(id); err != nil {
			return "", &KeyOperationError{
				Op:    "generate",
				KeyID: id,
				Err:   fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err),
			}
		}

		var version uint64 = 1
		if old != nil {
			version = old.version + 1
		}
		if ks.current.CompareAndSwap(old, &currentKeyRef{id: id, version: version}) {
			ks.log.WithField("keyId", id).Debug("rotated current symmetric key")
			return id, nil
		}

		// Lost the race; another rotation landed first. Drop our key and
		// retry against the new pointer.
		if err := ks.provider.DeleteSymmetricKey(id); err != nil {
			ks.log.WithField("keyId", id).WithError(err).
				Warn("failed to delete superseded symmetric key")
		}
	}
}

// CurrentSymmetricKeyID returns the ID of the current symmetric key, if one
// has been generated.
func (ks *KeyStore) CurrentSymmetricKeyID() (string, bool) {
	ref := ks.current.Load()
	if ref == nil {
		return "", false
	}
	return ref.id, true
}

// KeyKind reports the kind of the key stored under id, if any.
func (ks *KeyStore) KeyKind(id string) (KeyKind, bool) {
	return ks.provider.KeyKind(id)
}

// EncryptWithPublicKey hybrid-encrypts data for an external public key in
// the given encoding. Only AlgorithmHybridRSA is supported.
func (ks *KeyStore) EncryptWithPublicKey(publicKey, data []byte, format PublicKeyFormat, alg Algorithm) ([]byte, error) {
	if alg != AlgorithmHybridRSA {
		return nil, &KeyOperationError{
			Op:  "encrypt",
			Err: fmt.Errorf("%w: unsupported algorithm %q", ErrEncryptionFailed, alg),
		}
	}
	out, err := ks.provider.EncryptWithPublicKey(publicKey, data, format)
	if err != nil {
		return nil, &KeyOperationError{
			Op:  "encrypt",
			Err: fmt.Errorf("%w: %v", ErrEncryptionFailed, wrapError(err)),
		}
	}
	return out, nil
}

// DecryptWithPrivateKey opens a hybrid blob with a stored private key.
func (ks *KeyStore) DecryptWithPrivateKey(keyID string, data []byte, alg Algorithm) ([]byte, error) {
	if alg != AlgorithmHybridRSA {
		return nil, &KeyOperationError{
			Op:    "decrypt",
			KeyID: keyID,
			Err:   fmt.Errorf("%w: unsupported algorithm %q", ErrDecryptionFailed, alg),
		}
	}
	out, err := ks.provider.DecryptWithPrivateKey(keyID, data)
	if err != nil {
		return nil, &KeyOperationError{Op: "decrypt", KeyID: keyID, Err: wrapError(err)}
	}
	return out, nil
}

// EncryptWithSymmetricKeyID seals data under a stored symmetric key. The IV
// is prepended to the ciphertext so decryption needs only the key ID and
// the blob. A nil iv means a fresh random one; passing an explicit IV is
// for deterministic tests only.
func (ks *KeyStore) EncryptWithSymmetricKeyID(keyID string, data, iv []byte) ([]byte, error) {
	out, err := ks.provider.EncryptWithSymmetricKey(keyID, data, iv)
	if err != nil {
		return nil, &KeyOperationError{
			Op:    "encrypt",
			KeyID: keyID,
			Err:   wrapError(err),
		}
	}
	return out, nil
}

// DecryptWithSymmetricKeyID opens an IV-prefixed blob sealed with
// EncryptWithSymmetricKeyID.
func (ks *KeyStore) DecryptWithSymmetricKeyID(keyID string, data []byte) ([]byte, error) {
	out, err := ks.provider.DecryptWithSymmetricKey(keyID, data)
	if err != nil {
		return nil, &KeyOperationError{Op: "decrypt", KeyID: keyID, Err: wrapError(err)}
	}
	return out, nil
}

// RemoveAllKeys deletes every key from the provider and clears the current
// symmetric key pointer. This is irreversible unless an archive exists.
func (ks *KeyStore) RemoveAllKeys() error {
	if err := ks.provider.RemoveAllKeys(); err != nil {
		return &KeyOperationError{Op: "delete", Err: err}
	}
	ks.current.Store(nil)
	ks.log.Info("removed all keys")
	return nil
}
