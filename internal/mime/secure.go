package mime

import (
	"encoding/json"
	"fmt"

	"github.com/sealmail/client-go/internal/crypto"
)

// HeaderEncrypted flags a message as platform-encrypted.
const HeaderEncrypted = "X-Sealmail-Encrypted"

// EncryptedPlaceholder is the canned body carried by encrypted messages in
// place of the real content.
const EncryptedPlaceholder = "Encrypted message attached"

// Secure part content types. Encode only ever emits the current
// generation; decode recognizes the two earlier product generations so
// that already-delivered mail stays readable.
const (
	ContentTypeKeyExchange = "application/x-sealmail-key"
	ContentTypeBody        = "application/x-sealmail-body"
)

var keyExchangeContentTypes = map[string]bool{
	ContentTypeKeyExchange:         true,
	"application/x-securemail-key": true,
	"application/x-cryptomail-key": true,
}

var bodyContentTypes = map[string]bool{
	ContentTypeBody:                 true,
	"application/x-securemail-body": true,
	"application/x-cryptomail-body": true,
}

// File names carried by secure parts. Informational only; recognition is
// by content type.
const (
	keyExchangeFileName = "Security Key"
	bodyFileName        = "Secure Data"
)

// KeyExchangePart carries one recipient's wrapped copy of the per-message
// symmetric key.
type KeyExchangePart struct {
	RecipientAddress string
	KeyID            string
	Algorithm        string
	WrappedKey       []byte
}

// BodyPart carries the encrypted canonical message.
type BodyPart struct {
	EncryptedContent []byte
}

// keyExchangeWire is the JSON document stored inside a key-exchange part.
// Field names are part of the deployed wire format.
type keyExchangeWire struct {
	RecipientAddress string `json:"recipientAddress"`
	KeyID            string `json:"keyId"`
	Algorithm        string `json:"algorithm"`
	WrappedKey       string `json:"wrappedKey"`
}

func marshalKeyExchange(p *KeyExchangePart) ([]byte, error) {
	return json.Marshal(keyExchangeWire{
		RecipientAddress: p.RecipientAddress,
		KeyID:            p.KeyID,
		Algorithm:        p.Algorithm,
		WrappedKey:       crypto.ToBase64(p.WrappedKey),
	})
}

func unmarshalKeyExchange(data []byte) (*KeyExchangePart, error) {
	var wire keyExchangeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode key exchange part: %w", err)
	}

	wrapped, err := crypto.DecodeBase64(wire.WrappedKey)
	if err != nil {
		return nil, fmt.Errorf("decode wrapped key: %w", err)
	}

	return &KeyExchangePart{
		RecipientAddress: wire.RecipientAddress,
		KeyID:            wire.KeyID,
		Algorithm:        wire.Algorithm,
		WrappedKey:       wrapped,
	}, nil
}
