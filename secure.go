package sealmail

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sealmail/client-go/internal/crypto"
	"github.com/sealmail/client-go/internal/mime"
)

// PublicKeyRecord associates an email address with a published public key,
// as served by the platform's key directory.
type PublicKeyRecord struct {
	EmailAddress string
	KeyID        string
	PublicKey    []byte
	Format       PublicKeyFormat
}

// EncryptOptions controls Encrypt behavior.
type EncryptOptions struct {
	// RequireEncryption turns the cleartext fallback into a hard failure:
	// when any recipient has no public key, Encrypt fails instead of
	// sending cleartext.
	RequireEncryption bool
}

// EncryptResult is the outcome of encrypting one message.
type EncryptResult struct {
	// Raw is the wire-ready MIME document, encrypted or cleartext.
	Raw []byte
	// Encrypted reports whether Raw carries secure parts.
	Encrypted bool
	// MissingRecipients lists the addresses that had no public key when
	// the message fell back to cleartext.
	MissingRecipients []string
}

// MessageCrypto is the end-to-end message engine: it encrypts outgoing
// messages per recipient and decrypts incoming ones with a local key pair.
type MessageCrypto struct {
	keys  *KeyStore
	codec *Codec
	log   logrus.FieldLogger
}

// NewMessageCrypto creates a MessageCrypto on top of a KeyStore.
func NewMessageCrypto(keys *KeyStore, opts ...Option) *MessageCrypto {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MessageCrypto{
		keys:  keys,
		codec: &Codec{log: cfg.log},
		log:   cfg.log,
	}
}

// Encrypt renders msg and encrypts it for every recipient plus the sender.
//
// A fresh 256-bit message key encrypts the full cleartext encoding of msg;
// each participant gets the message key wrapped under their public key as a
// key-exchange part. The sender is included so the message stays readable
// in their own sent mail. The message key never leaves this function.
//
// When any participant has no entry in keys the message is returned as
// cleartext with MissingRecipients set, unless opts.RequireEncryption, in
// which case Encrypt fails.
func (mc *MessageCrypto) Encrypt(msg *Message, keys []PublicKeyRecord, opts EncryptOptions) (*EncryptResult, error) {
	byAddress := make(map[string]*PublicKeyRecord, len(keys))
	for i := range keys {
		byAddress[normalizeAddress(keys[i].EmailAddress)] = &keys[i]
	}

	participants := participantAddresses(msg)
	var missing []string
	records := make([]*PublicKeyRecord, 0, len(participants))
	for _, addr := range participants {
		rec, ok := byAddress[addr]
		if !ok {
			missing = append(missing, addr)
			continue
		}
		records = append(records, rec)
	}

	if len(missing) > 0 {
		if opts.RequireEncryption {
			return nil, fmt.Errorf("%w: %s", ErrEncryptionRequired, strings.Join(missing, ", "))
		}
		mc.log.WithField("missing", missing).Debug("sending cleartext, recipients without keys")
		raw, err := mc.codec.Encode(msg)
		if err != nil {
			return nil, err
		}
		return &EncryptResult{Raw: raw, Encrypted: false, MissingRecipients: missing}, nil
	}

	inner, err := mc.codec.Encode(msg)
	if err != nil {
		return nil, err
	}

	messageKey, err := crypto.GenerateAESKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	defer zeroBytes(messageKey)

	encBody, err := crypto.EncryptAESCBC(messageKey, inner, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	keyExchanges := make([]*mime.KeyExchangePart, 0, len(records))
	for _, rec := range records {
		wrapped, err := mc.keys.EncryptWithPublicKey(rec.PublicKey, messageKey, rec.Format, AlgorithmHybridRSA)
		if err != nil {
			return nil, err
		}
		keyExchanges = append(keyExchanges, &mime.KeyExchangePart{
			RecipientAddress: rec.EmailAddress,
			KeyID:            rec.KeyID,
			Algorithm:        string(AlgorithmHybridRSA),
			WrappedKey:       wrapped,
		})
	}

	envelope := toMIMEEmail(msg)
	envelope.Body = mime.EncryptedPlaceholder
	envelope.IsHTML = false
	envelope.Attachments = nil
	envelope.InlineAttachments = nil

	raw, err := mime.EncodeSecure(envelope, keyExchanges, &mime.BodyPart{EncryptedContent: encBody})
	if err != nil {
		return nil, wrapError(err)
	}

	mc.log.WithField("recipients", len(records)).Debug("encrypted message")
	return &EncryptResult{Raw: raw, Encrypted: true}, nil
}

// Decrypt parses a raw message and, if it carries secure parts, opens it
// with the key pair stored under ownKeyID. Cleartext messages parse
// normally. An encrypted message with no key exchange for ownKeyID fails
// with ErrNoMatchingRecipientKey; the caller can still show the envelope.
func (mc *MessageCrypto) Decrypt(raw []byte, ownKeyID string) (*Message, error) {
	keyExchanges, body, found, err := mime.ParseSecure(raw, mc.log)
	if err != nil {
		return nil, &DecryptError{Stage: "parse", Err: wrapError(err)}
	}
	if !found {
		return mc.codec.Parse(raw)
	}
	if body == nil {
		return nil, &DecryptError{
			Stage: "parse",
			Err:   fmt.Errorf("%w: key exchange without body part", ErrMalformedMIME),
		}
	}

	var match *mime.KeyExchangePart
	for _, kx := range keyExchanges {
		if kx.KeyID == ownKeyID {
			match = kx
			break
		}
	}
	if match == nil {
		return nil, &DecryptError{Stage: "unwrap", Err: ErrNoMatchingRecipientKey}
	}

	messageKey, err := mc.keys.DecryptWithPrivateKey(ownKeyID, match.WrappedKey, AlgorithmHybridRSA)
	if err != nil {
		return nil, &DecryptError{Stage: "unwrap", Err: err}
	}
	defer zeroBytes(messageKey)

	inner, err := crypto.DecryptAESCBC(messageKey, body.EncryptedContent)
	if err != nil {
		return nil, &DecryptError{Stage: "body", Err: wrapError(err)}
	}

	msg, err := mc.codec.Parse(inner)
	if err != nil {
		return nil, &DecryptError{Stage: "inner", Err: err}
	}
	return msg, nil
}

// participantAddresses returns the sender and every recipient, normalized
// and deduplicated, in stable order.
func participantAddresses(msg *Message) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(addr string) {
		norm := normalizeAddress(addr)
		if norm == "" || seen[norm] {
			return
		}
		seen[norm] = true
		out = append(out, norm)
	}

	add(msg.From)
	for _, a := range msg.To {
		add(a)
	}
	for _, a := range msg.Cc {
		add(a)
	}
	for _, a := range msg.Bcc {
		add(a)
	}
	return out
}

func normalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
