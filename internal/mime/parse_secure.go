package mime

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	"github.com/sirupsen/logrus"
)

// ParseSecure extracts the secure parts from an encrypted message. It
// recognizes the current content types and both legacy generations. found
// reports whether any secure part was present; a cleartext message yields
// (nil, nil, false, nil).
func ParseSecure(raw []byte, log logrus.FieldLogger) (keyExchanges []*KeyExchangePart, body *BodyPart, found bool, err error) {
	if log == nil {
		log = discardLogger()
	}

	root, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, nil, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	p := &parser{log: log}
	if err := p.walkSecure(root, &keyExchanges, &body); err != nil {
		return nil, nil, false, err
	}

	return keyExchanges, body, len(keyExchanges) > 0 || body != nil, nil
}

func (p *parser) walkSecure(e *message.Entity, keyExchanges *[]*KeyExchangePart, body **BodyPart) error {
	contentType, _, err := e.Header.ContentType()
	if err != nil {
		return nil
	}

	if strings.HasPrefix(contentType, "multipart/") {
		children, err := p.children(e)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := p.walkSecure(child, keyExchanges, body); err != nil {
				return err
			}
		}
		return nil
	}

	switch {
	case keyExchangeContentTypes[contentType]:
		data, err := io.ReadAll(e.Body)
		if err != nil {
			return fmt.Errorf("read key exchange part: %w", err)
		}
		part, err := unmarshalKeyExchange(data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*keyExchanges = append(*keyExchanges, part)

	case bodyContentTypes[contentType]:
		data, err := io.ReadAll(e.Body)
		if err != nil {
			return fmt.Errorf("read secure body part: %w", err)
		}
		*body = &BodyPart{EncryptedContent: data}
	}

	return nil
}
