package sealmail

import (
	"fmt"
	"sync"

	"github.com/sealmail/client-go/internal/crypto"
)

// memoryProvider is an in-memory KeyStoreProvider. Key material lives only
// for the lifetime of the process.
type memoryProvider struct {
	mu   sync.RWMutex
	keys map[string]*StoredKey
}

// NewMemoryProvider returns a KeyStoreProvider that stores key material in
// process memory. It is intended for tests and ephemeral sessions; nothing
// survives a restart.
func NewMemoryProvider() KeyStoreProvider {
	return &memoryProvider{keys: make(map[string]*StoredKey)}
}

func (p *memoryProvider) GenerateKeyPair(id string) ([]byte, error) {
	pub, priv, err := crypto.GenerateRSAKeyPair()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys[id] = &StoredKey{
		ID:         id,
		Kind:       KeyKindPair,
		PublicKey:  pub,
		PrivateKey: priv,
	}
	return pub, nil
}

func (p *memoryProvider) PublicKey(id string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	k, ok := p.keys[id]
	if !ok || k.Kind != KeyKindPair {
		return nil, ErrKeyNotFound
	}
	return k.PublicKey, nil
}

func (p *memoryProvider) DeleteKeyPair(id string) error {
	return p.delete(id, KeyKindPair)
}

func (p *memoryProvider) GenerateSymmetricKey(id string) error {
	key, err := crypto.GenerateAESKey()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys[id] = &StoredKey{
		ID:           id,
		Kind:         KeyKindSymmetric,
		SymmetricKey: key,
	}
	return nil
}

func (p *memoryProvider) DeleteSymmetricKey(id string) error {
	return p.delete(id, KeyKindSymmetric)
}

func (p *memoryProvider) delete(id string, kind KeyKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	k, ok := p.keys[id]
	if !ok || k.Kind != kind {
		return ErrKeyNotFound
	}
	delete(p.keys, id)
	return nil
}

func (p *memoryProvider) KeyKind(id string) (KeyKind, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	k, ok := p.keys[id]
	if !ok {
		return "", false
	}
	return k.Kind, true
}

func (p *memoryProvider) EncryptWithPublicKey(publicKey, data []byte, format PublicKeyFormat) ([]byte, error) {
	f, err := keyFormatInternal(format)
	if err != nil {
		return nil, err
	}
	pub, err := crypto.ParsePublicKey(publicKey, f)
	if err != nil {
		return nil, err
	}
	return crypto.HybridEncrypt(pub, data)
}

func (p *memoryProvider) DecryptWithPrivateKey(id string, data []byte) ([]byte, error) {
	p.mu.RLock()
	k, ok := p.keys[id]
	p.mu.RUnlock()
	if !ok || k.Kind != KeyKindPair {
		return nil, ErrKeyNotFound
	}

	priv, err := crypto.ParsePrivateKey(k.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return crypto.HybridDecrypt(priv, data)
}

func (p *memoryProvider) EncryptWithSymmetricKey(id string, data, iv []byte) ([]byte, error) {
	p.mu.RLock()
	k, ok := p.keys[id]
	p.mu.RUnlock()
	if !ok || k.Kind != KeyKindSymmetric {
		return nil, ErrKeyNotFound
	}
	return crypto.EncryptAESCBC(k.SymmetricKey, data, iv)
}

func (p *memoryProvider) DecryptWithSymmetricKey(id string, data []byte) ([]byte, error) {
	p.mu.RLock()
	k, ok := p.keys[id]
	p.mu.RUnlock()
	if !ok || k.Kind != KeyKindSymmetric {
		return nil, ErrKeyNotFound
	}
	return crypto.DecryptAESCBC(k.SymmetricKey, data)
}

func (p *memoryProvider) ExportKeys() ([]StoredKey, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]StoredKey, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, *k)
	}
	return out, nil
}

func (p *memoryProvider) ImportKeys(keys []StoredKey) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range keys {
		k := keys[i]
		p.keys[k.ID] = &k
	}
	return nil
}

func (p *memoryProvider) RemoveAllKeys() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = make(map[string]*StoredKey)
	return nil
}
