// Package crypto provides the cryptographic primitives for the sealmail
// message protocol. It implements hybrid public-key encryption, symmetric
// sealing, and key-archive protection using standardized algorithms.
//
// # Algorithm Suite
//
// The package uses the following cryptographic algorithms:
//
//   - RSA-OAEP (SHA-256): wraps an ephemeral AES key for each recipient of
//     an encrypted message. Public keys are accepted in both SPKI
//     (SubjectPublicKeyInfo) and raw PKCS#1 RSAPublicKey encodings.
//
//   - AES-256-CBC with PKCS#7 padding: encrypts message bodies and sealed
//     attributes. The IV is prepended to the ciphertext so that a
//     (key, blob) pair is self-sufficient for decryption.
//
//   - AES-256-GCM: authenticated encryption for exported key archives.
//
//   - Argon2id + HKDF-SHA-512: derives the archive encryption key from a
//     user password with domain separation.
//
// The wire format of the hybrid scheme is fixed for interoperability with
// already-deployed recipients: an RSA-OAEP block of exactly the key's
// modulus size, followed by a 16-byte IV, followed by the AES-CBC
// ciphertext of the payload.
//
// # Security Notes
//
// CBC ciphertexts are not authenticated at this layer. Integrity of
// in-network messages is provided by the surrounding delivery platform;
// key archives, which leave the platform, use AES-GCM.
package crypto
