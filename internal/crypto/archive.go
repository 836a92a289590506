package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for the archive password KDF. These follow the
// RFC 9106 low-memory recommendation.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// archiveKey derives the archive encryption key from a password and salt:
// Argon2id stretches the password, then HKDF-SHA-512 binds the result to
// the archive context string.
func archiveKey(password, salt []byte) ([]byte, error) {
	stretched := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, AESKeySize)
	return DeriveKey(stretched, salt, []byte(ArchiveKDFContext), AESKeySize)
}

// EncryptArchive seals an exported key archive under a password.
// Output layout: salt (16) || nonce (12) || ciphertext || tag (16).
func EncryptArchive(password, plaintext []byte) ([]byte, error) {
	salt := make([]byte, ArchiveSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key, err := archiveKey(password, salt)
	if err != nil {
		return nil, err
	}

	sealed, err := EncryptAESGCM(key, plaintext, nil)
	if err != nil {
		return nil, err
	}

	return append(salt, sealed...), nil
}

// DecryptArchive opens an archive produced by EncryptArchive. A wrong
// password and a corrupted archive are indistinguishable at the GCM layer;
// both surface as ErrInvalidArchive.
func DecryptArchive(password, data []byte) ([]byte, error) {
	if len(data) < ArchiveSaltSize+GCMNonceSize+GCMTagSize {
		return nil, ErrInvalidArchive
	}

	key, err := archiveKey(password, data[:ArchiveSaltSize])
	if err != nil {
		return nil, err
	}

	plaintext, err := DecryptAESGCM(key, data[ArchiveSaltSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	return plaintext, nil
}
