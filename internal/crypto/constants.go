package crypto

const (
	// AlgorithmAESCBCPKCS7 identifies AES-CBC with PKCS#7 padding. The
	// string is part of the sealed-attribute wire format and must not
	// change.
	AlgorithmAESCBCPKCS7 = "AES/CBC/PKCS7Padding"

	// AlgorithmRSAOAEPAESCBC identifies the hybrid public-key scheme:
	// RSA-OAEP wrapping an ephemeral AES key which in turn encrypts the
	// payload with AES-CBC-PKCS7. The string is part of the key-exchange
	// wire format and must not change.
	AlgorithmRSAOAEPAESCBC = "RSAEncryptionOAEPAESCBC"
)

const (
	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESBlockSize is the AES block (and CBC IV) size in bytes.
	AESBlockSize = 16
	// GCMNonceSize is the size of an AES-GCM nonce in bytes.
	GCMNonceSize = 12
	// GCMTagSize is the size of an AES-GCM authentication tag in bytes.
	GCMTagSize = 16

	// RSAKeyBits is the modulus size used for generated key pairs.
	RSAKeyBits = 2048

	// ArchiveSaltSize is the size of the password KDF salt in bytes.
	ArchiveSaltSize = 16
)

// ArchiveKDFContext is the HKDF info string used when deriving the key
// archive encryption key, for domain separation from other password uses.
const ArchiveKDFContext = "sealmail:key-archive:v1"
