package sealmail

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sealmail/client-go/internal/crypto"
)

// ArchiveVersion is the current key archive format version.
const ArchiveVersion = 1

// keyArchive is the cleartext layout of an exported keystore.
// WARNING: this contains private key material and only ever exists
// encrypted on the wire; the struct is not exported.
type keyArchive struct {
	// Version is the archive format version. MUST be 1.
	Version int `json:"version"`
	// KeyRingID identifies the keystore the archive was taken from.
	KeyRingID string `json:"keyRingId"`
	// CurrentSymmetricKeyID is the current key at export time, if any.
	CurrentSymmetricKeyID string `json:"currentSymmetricKeyId,omitempty"`
	// ExportedAt is the export timestamp. Informational only.
	ExportedAt time.Time `json:"exportedAt"`
	// Keys holds every stored key, private material included.
	Keys []StoredKey `json:"keys"`
}

// Validate checks archive contents before they touch the provider.
func (a *keyArchive) Validate() error {
	if a.Version != ArchiveVersion {
		return fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidImportData, a.Version, ArchiveVersion)
	}
	if a.KeyRingID == "" {
		return fmt.Errorf("%w: keyRingId is required", ErrInvalidImportData)
	}

	currentSeen := a.CurrentSymmetricKeyID == ""
	for i, k := range a.Keys {
		if k.ID == "" {
			return fmt.Errorf("%w: key %d: id is required", ErrInvalidImportData, i)
		}
		switch k.Kind {
		case KeyKindPair:
			if len(k.PublicKey) == 0 || len(k.PrivateKey) == 0 {
				return fmt.Errorf("%w: key %s: key pair material is incomplete", ErrInvalidImportData, k.ID)
			}
		case KeyKindSymmetric:
			if len(k.SymmetricKey) != crypto.AESKeySize {
				return fmt.Errorf("%w: key %s: symmetric key size %d, expected %d",
					ErrInvalidImportData, k.ID, len(k.SymmetricKey), crypto.AESKeySize)
			}
			if k.ID == a.CurrentSymmetricKeyID {
				currentSeen = true
			}
		default:
			return fmt.Errorf("%w: key %s: unknown kind %q", ErrInvalidImportData, k.ID, k.Kind)
		}
	}
	if !currentSeen {
		return fmt.Errorf("%w: currentSymmetricKeyId %s not present in keys",
			ErrInvalidImportData, a.CurrentSymmetricKeyID)
	}
	return nil
}

// ExportKeys serializes every stored key into a password-encrypted archive.
// The archive key is derived from the password with argon2id and the blob is
// sealed with AES-GCM, so tampering is detected on import.
func (ks *KeyStore) ExportKeys(password []byte) ([]byte, error) {
	keys, err := ks.provider.ExportKeys()
	if err != nil {
		return nil, &KeyOperationError{Op: "export", Err: err}
	}

	archive := keyArchive{
		Version:    ArchiveVersion,
		KeyRingID:  ks.keyRingID,
		ExportedAt: time.Now().UTC(),
		Keys:       keys,
	}
	if id, ok := ks.CurrentSymmetricKeyID(); ok {
		archive.CurrentSymmetricKeyID = id
	}

	plaintext, err := json.Marshal(&archive)
	if err != nil {
		return nil, &KeyOperationError{Op: "export", Err: err}
	}

	sealed, err := crypto.EncryptArchive(password, plaintext)
	if err != nil {
		return nil, &KeyOperationError{Op: "export", Err: wrapError(err)}
	}

	ks.log.WithField("keys", len(keys)).Debug("exported key archive")
	return sealed, nil
}

// ImportKeys opens a password-encrypted archive and replaces the keystore
// contents with it. Import is destructive: all existing keys are removed
// first. A wrong password or corrupted archive fails with ErrInvalidArchive
// before anything is touched.
func (ks *KeyStore) ImportKeys(archiveData, password []byte) error {
	plaintext, err := crypto.DecryptArchive(password, archiveData)
	if err != nil {
		return &KeyOperationError{Op: "import", Err: wrapError(err)}
	}

	var archive keyArchive
	if err := json.Unmarshal(plaintext, &archive); err != nil {
		return &KeyOperationError{
			Op:  "import",
			Err: fmt.Errorf("%w: %v", ErrInvalidImportData, err),
		}
	}
	if err := archive.Validate(); err != nil {
		return &KeyOperationError{Op: "import", Err: err}
	}

	if err := ks.provider.RemoveAllKeys(); err != nil {
		return &KeyOperationError{Op: "import", Err: err}
	}
	if err := ks.provider.ImportKeys(archive.Keys); err != nil {
		return &KeyOperationError{Op: "import", Err: err}
	}

	ks.keyRingID = archive.KeyRingID
	if archive.CurrentSymmetricKeyID != "" {
		ks.current.Store(&currentKeyRef{id: archive.CurrentSymmetricKeyID, version: 1})
	} else {
		ks.current.Store(nil)
	}

	ks.log.WithFields(logrus.Fields{
		"keyRingId": archive.KeyRingID,
		"keys":      len(archive.Keys),
	}).Debug("imported key archive")
	return nil
}
