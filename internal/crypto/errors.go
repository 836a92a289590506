package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when an AES key has the wrong length.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when a CBC IV has the wrong length.
	ErrInvalidIVSize = errors.New("invalid iv size")

	// ErrInvalidNonceSize is returned when a GCM nonce has the wrong length.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidPadding is returned when CBC plaintext carries malformed
	// PKCS#7 padding after decryption.
	ErrInvalidPadding = errors.New("invalid pkcs7 padding")

	// ErrCiphertextTooShort is returned when a ciphertext is shorter than
	// its mandatory prefix (IV, nonce, or OAEP block).
	ErrCiphertextTooShort = errors.New("ciphertext too short")

	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnknownKeyFormat is returned when public key bytes match neither
	// SPKI nor a raw RSA public key encoding.
	ErrUnknownKeyFormat = errors.New("unknown public key format")

	// ErrNotRSAKey is returned when SPKI bytes decode to a non-RSA key.
	ErrNotRSAKey = errors.New("not an RSA public key")

	// ErrInvalidArchive is returned when an exported key archive is
	// malformed or was encrypted with a different password.
	ErrInvalidArchive = errors.New("invalid key archive")
)
