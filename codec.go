package sealmail

import (
	"github.com/sirupsen/logrus"

	"github.com/sealmail/client-go/internal/mime"
)

// Codec encodes Messages to RFC 822 bytes and parses raw mail back into
// Messages.
type Codec struct {
	log logrus.FieldLogger
}

// NewCodec creates a Codec.
func NewCodec(opts ...Option) *Codec {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Codec{log: cfg.log}
}

// Encode renders a message as a standards-compliant MIME document.
func (c *Codec) Encode(msg *Message) ([]byte, error) {
	raw, err := mime.Encode(toMIMEEmail(msg))
	if err != nil {
		return nil, wrapError(err)
	}
	return raw, nil
}

// Parse reads a raw MIME message into a Message. Unrenderable parts are
// logged and dropped; structurally broken input fails with ErrMalformedMIME.
func (c *Codec) Parse(raw []byte) (*Message, error) {
	email, err := mime.Parse(raw, c.log)
	if err != nil {
		return nil, wrapError(err)
	}
	return fromMIMEEmail(email), nil
}

var defaultCodec = NewCodec()

// EncodeMessage renders a message as MIME bytes using a default Codec.
func EncodeMessage(msg *Message) ([]byte, error) {
	return defaultCodec.Encode(msg)
}

// ParseMessage parses raw MIME bytes using a default Codec.
func ParseMessage(raw []byte) (*Message, error) {
	return defaultCodec.Parse(raw)
}
