package sealmail

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateKeyPair(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	pair, err := ks.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}
	if pair.KeyID == "" {
		t.Error("expected non-empty key ID")
	}
	if pair.Format != KeyFormatSPKI {
		t.Errorf("Format = %s, want %s", pair.Format, KeyFormatSPKI)
	}

	format, err := DetectPublicKeyFormat(pair.PublicKey)
	if err != nil {
		t.Fatalf("DetectPublicKeyFormat() error: %v", err)
	}
	if format != KeyFormatSPKI {
		t.Errorf("detected format = %s, want %s", format, KeyFormatSPKI)
	}

	kind, ok := ks.KeyKind(pair.KeyID)
	if !ok || kind != KeyKindPair {
		t.Errorf("KeyKind = %s, %v; want %s, true", kind, ok, KeyKindPair)
	}
}

func TestKeyPairWithID(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	pair, err := ks.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}

	got, err := ks.KeyPairWithID(pair.KeyID)
	if err != nil {
		t.Fatalf("KeyPairWithID() error: %v", err)
	}
	if !bytes.Equal(got.PublicKey, pair.PublicKey) {
		t.Error("public key differs from generated key")
	}

	_, err = ks.KeyPairWithID("no-such-key")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("KeyPairWithID(unknown) = %v, want ErrKeyNotFound", err)
	}
	var opErr *KeyOperationError
	if !errors.As(err, &opErr) || opErr.KeyID != "no-such-key" {
		t.Errorf("expected KeyOperationError with key ID, got %v", err)
	}
}

// badPairProvider simulates a platform keystore that reports success but
// hands back unusable public key bytes.
type badPairProvider struct {
	KeyStoreProvider
	deleted []string
}

func (p *badPairProvider) GenerateKeyPair(id string) ([]byte, error) {
	return []byte{0x01, 0x02, 0x03}, nil
}

func (p *badPairProvider) DeleteKeyPair(id string) error {
	p.deleted = append(p.deleted, id)
	return nil
}

func TestGenerateKeyPair_RollbackOnUnusableKey(t *testing.T) {
	provider := &badPairProvider{KeyStoreProvider: NewMemoryProvider()}
	ks := NewKeyStore(provider)

	_, err := ks.GenerateKeyPair()
	if !errors.Is(err, ErrKeyGenerationFailed) {
		t.Fatalf("GenerateKeyPair() = %v, want ErrKeyGenerationFailed", err)
	}
	if len(provider.deleted) != 1 {
		t.Errorf("deleted %d key pairs, want 1 (rollback)", len(provider.deleted))
	}
}

// failingPairProvider fails key pair generation outright.
type failingPairProvider struct {
	KeyStoreProvider
}

func (p *failingPairProvider) GenerateKeyPair(id string) ([]byte, error) {
	return nil, errors.New("keystore unavailable")
}

func TestGenerateKeyPair_ProviderFailure(t *testing.T) {
	ks := NewKeyStore(&failingPairProvider{KeyStoreProvider: NewMemoryProvider()})

	_, err := ks.GenerateKeyPair()
	if !errors.Is(err, ErrKeyGenerationFailed) {
		t.Fatalf("GenerateKeyPair() = %v, want ErrKeyGenerationFailed", err)
	}
}

func TestGenerateCurrentSymmetricKey_Rotation(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	if _, ok := ks.CurrentSymmetricKeyID(); ok {
		t.Fatal("expected no current symmetric key on a fresh store")
	}

	first, err := ks.GenerateCurrentSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateCurrentSymmetricKey() error: %v", err)
	}

	plaintext := []byte("sealed under the first key")
	blob, err := ks.EncryptWithSymmetricKeyID(first, plaintext, nil)
	if err != nil {
		t.Fatalf("EncryptWithSymmetricKeyID() error: %v", err)
	}

	second, err := ks.GenerateCurrentSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateCurrentSymmetricKey() error: %v", err)
	}
	if second == first {
		t.Fatal("rotation returned the same key ID")
	}

	current, ok := ks.CurrentSymmetricKeyID()
	if !ok || current != second {
		t.Errorf("CurrentSymmetricKeyID() = %s, %v; want %s, true", current, ok, second)
	}

	// Rotation is non-destructive: data sealed under the old key still opens.
	got, err := ks.DecryptWithSymmetricKeyID(first, blob)
	if err != nil {
		t.Fatalf("DecryptWithSymmetricKeyID(old key) error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Error("old-key plaintext mismatch after rotation")
	}
}

func TestSymmetricEncryptDecrypt(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	id, err := ks.GenerateCurrentSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateCurrentSymmetricKey() error: %v", err)
	}

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"short", []byte("hello")},
		{"empty", []byte{}},
		{"block aligned", bytes.Repeat([]byte{0xAB}, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := ks.EncryptWithSymmetricKeyID(id, tt.plaintext, nil)
			if err != nil {
				t.Fatalf("encrypt error: %v", err)
			}
			got, err := ks.DecryptWithSymmetricKeyID(id, blob)
			if err != nil {
				t.Fatalf("decrypt error: %v", err)
			}
			if !bytes.Equal(got, tt.plaintext) {
				t.Errorf("round-trip mismatch: got %q, want %q", got, tt.plaintext)
			}
		})
	}

	_, err = ks.DecryptWithSymmetricKeyID("no-such-key", []byte("junk"))
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("decrypt with unknown key = %v, want ErrKeyNotFound", err)
	}
}

func TestHybridEncryptDecrypt(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	pair, err := ks.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}

	plaintext := []byte("wrapped for one recipient")
	blob, err := ks.EncryptWithPublicKey(pair.PublicKey, plaintext, pair.Format, AlgorithmHybridRSA)
	if err != nil {
		t.Fatalf("EncryptWithPublicKey() error: %v", err)
	}

	got, err := ks.DecryptWithPrivateKey(pair.KeyID, blob, AlgorithmHybridRSA)
	if err != nil {
		t.Fatalf("DecryptWithPrivateKey() error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Error("hybrid round-trip mismatch")
	}
}

func TestHybridEncrypt_UnsupportedAlgorithm(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	pair, err := ks.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}

	_, err = ks.EncryptWithPublicKey(pair.PublicKey, []byte("x"), pair.Format, AlgorithmAESCBC)
	if !errors.Is(err, ErrEncryptionFailed) {
		t.Errorf("EncryptWithPublicKey(AES alg) = %v, want ErrEncryptionFailed", err)
	}

	_, err = ks.DecryptWithPrivateKey(pair.KeyID, []byte("x"), AlgorithmAESCBC)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("DecryptWithPrivateKey(AES alg) = %v, want ErrDecryptionFailed", err)
	}
}

func TestRemoveAllKeys(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	pair, err := ks.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}
	if _, err := ks.GenerateCurrentSymmetricKey(); err != nil {
		t.Fatalf("GenerateCurrentSymmetricKey() error: %v", err)
	}

	if err := ks.RemoveAllKeys(); err != nil {
		t.Fatalf("RemoveAllKeys() error: %v", err)
	}

	if _, ok := ks.CurrentSymmetricKeyID(); ok {
		t.Error("current symmetric key survived RemoveAllKeys")
	}
	if _, ok := ks.KeyKind(pair.KeyID); ok {
		t.Error("key pair survived RemoveAllKeys")
	}
}

func TestDeleteKeyPair(t *testing.T) {
	ks := NewKeyStore(NewMemoryProvider())

	pair, err := ks.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}

	if err := ks.DeleteKeyPair(pair.KeyID); err != nil {
		t.Fatalf("DeleteKeyPair() error: %v", err)
	}
	if err := ks.DeleteKeyPair(pair.KeyID); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("second DeleteKeyPair() = %v, want ErrKeyNotFound", err)
	}
}
