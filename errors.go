package sealmail

import (
	"errors"
	"fmt"

	"github.com/sealmail/client-go/internal/crypto"
	"github.com/sealmail/client-go/internal/mime"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrKeyNotFound is returned when a key ID does not resolve to stored material.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyGenerationFailed is returned when key pair or symmetric key generation fails.
	ErrKeyGenerationFailed = errors.New("key generation failed")

	// ErrEncryptionFailed is returned when an encryption operation fails.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is returned when a decryption operation fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnsealingFailed is returned when a sealed attribute cannot be opened.
	ErrUnsealingFailed = errors.New("unsealing failed")

	// ErrUnsupportedKeyFormat is returned when public key bytes match no known encoding.
	ErrUnsupportedKeyFormat = errors.New("unsupported key format")

	// ErrMalformedMIME is returned when a message cannot be parsed as MIME.
	ErrMalformedMIME = errors.New("malformed MIME message")

	// ErrNoMatchingRecipientKey is returned when an encrypted message carries no
	// key exchange for the local key.
	ErrNoMatchingRecipientKey = errors.New("no key exchange for local key")

	// ErrNoCurrentSymmetricKey is returned when no current symmetric key has been
	// generated yet.
	ErrNoCurrentSymmetricKey = errors.New("no current symmetric key")

	// ErrEncryptionRequired is returned when encryption is mandatory but at least
	// one recipient has no public key.
	ErrEncryptionRequired = errors.New("encryption required but recipient keys are missing")

	// ErrInvalidArchive is returned when a key archive cannot be opened, either
	// because the password is wrong or the archive is corrupted.
	ErrInvalidArchive = errors.New("invalid key archive")

	// ErrInvalidImportData is returned when imported keystore data fails validation.
	ErrInvalidImportData = errors.New("invalid import data")
)

// SealmailError is implemented by all SDK errors.
type SealmailError interface {
	error
	SealmailError() // marker method
}

// KeyOperationError reports a keystore operation failure for a specific key.
type KeyOperationError struct {
	Op    string // "generate", "encrypt", "decrypt", "delete", "export", "import"
	KeyID string
	Err   error
}

func (e *KeyOperationError) Error() string {
	if e.KeyID != "" {
		return fmt.Sprintf("key %s: %s: %v", e.KeyID, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyOperationError) Unwrap() error {
	return e.Err
}

// SealmailError implements the SealmailError interface.
func (e *KeyOperationError) SealmailError() {}

// UnsealError reports a failure to open a single sealed attribute.
type UnsealError struct {
	KeyID string
	Err   error
}

func (e *UnsealError) Error() string {
	return fmt.Sprintf("unseal with key %s: %v", e.KeyID, e.Err)
}

// Unwrap returns the underlying error.
func (e *UnsealError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *UnsealError) Is(target error) bool {
	return target == ErrUnsealingFailed
}

// SealmailError implements the SealmailError interface.
func (e *UnsealError) SealmailError() {}

// DecryptError reports a failure to decrypt message content.
type DecryptError struct {
	Stage string // "parse", "unwrap", "body", "inner"
	Err   error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("decryption failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecryptError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// SealmailError implements the SealmailError interface.
func (e *DecryptError) SealmailError() {}

// wrapError converts internal errors to public sentinels.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, crypto.ErrUnknownKeyFormat), errors.Is(err, crypto.ErrNotRSAKey):
		return fmt.Errorf("%w: %v", ErrUnsupportedKeyFormat, err)
	case errors.Is(err, crypto.ErrInvalidArchive):
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	case errors.Is(err, mime.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedMIME, err)
	}

	return err
}
