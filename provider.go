package sealmail

// KeyKind distinguishes the two kinds of stored key material.
type KeyKind string

const (
	// KeyKindPair is an RSA key pair.
	KeyKindPair KeyKind = "keyPair"
	// KeyKindSymmetric is an AES-256 key.
	KeyKindSymmetric KeyKind = "symmetric"
)

// StoredKey is the serialized form of one keystore entry, as produced by
// ExportKeys and consumed by ImportKeys. Exactly one of the key fields is
// populated depending on Kind.
type StoredKey struct {
	ID   string  `json:"id"`
	Kind KeyKind `json:"kind"`

	PublicKey    []byte `json:"publicKey,omitempty"`    // SPKI DER
	PrivateKey   []byte `json:"privateKey,omitempty"`   // PKCS#8 DER
	SymmetricKey []byte `json:"symmetricKey,omitempty"` // raw AES-256 key
}

// KeyStoreProvider is the storage and primitive-crypto backend of a
// KeyStore. Implementations hold private key material and never release it;
// all private key use happens behind the interface. A provider must be safe
// for concurrent use.
//
// Platform builds implement this against the OS keystore. NewMemoryProvider returns
// a process-local implementation for tests and ephemeral sessions.
type KeyStoreProvider interface {
	// GenerateKeyPair creates an RSA key pair under id and returns the
	// SPKI-encoded public key.
	GenerateKeyPair(id string) (publicKey []byte, err error)

	// PublicKey returns the SPKI-encoded public key for a stored pair.
	PublicKey(id string) ([]byte, error)

	// DeleteKeyPair removes a key pair. Deleting an unknown id is an error.
	DeleteKeyPair(id string) error

	// GenerateSymmetricKey creates an AES-256 key under id.
	GenerateSymmetricKey(id string) error

	// DeleteSymmetricKey removes a symmetric key. Deleting an unknown id is
	// an error.
	DeleteSymmetricKey(id string) error

	// KeyKind reports the kind of the key stored under id, if any.
	KeyKind(id string) (KeyKind, bool)

	// EncryptWithPublicKey hybrid-encrypts data for an external public key.
	// The key does not need to be stored; format names its encoding.
	EncryptWithPublicKey(publicKey, data []byte, format PublicKeyFormat) ([]byte, error)

	// DecryptWithPrivateKey opens a hybrid blob with the private key stored
	// under id.
	DecryptWithPrivateKey(id string, data []byte) ([]byte, error)

	// EncryptWithSymmetricKey seals data under the symmetric key stored at
	// id. A nil iv means a fresh random one.
	EncryptWithSymmetricKey(id string, data, iv []byte) ([]byte, error)

	// DecryptWithSymmetricKey opens an iv-prefixed blob with the symmetric
	// key stored under id.
	DecryptWithSymmetricKey(id string, data []byte) ([]byte, error)

	// ExportKeys returns every stored key, private material included.
	ExportKeys() ([]StoredKey, error)

	// ImportKeys stores the given keys, replacing entries with matching IDs.
	ImportKeys(keys []StoredKey) error

	// RemoveAllKeys deletes every stored key.
	RemoveAllKeys() error
}
