package mime

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// messageIDDomain is the domain used for generated Message-ID headers.
const messageIDDomain = "sealmail.local"

// Encode builds the RFC 822 byte stream for a cleartext message.
//
// Tree shape: multipart/mixed holding a multipart/related wrapper followed
// by ordinary attachments; the related wrapper holds the body part
// followed by inline attachments, each carrying a Content-ID resolvable
// from cid: references in an HTML body.
func Encode(email *Email) ([]byte, error) {
	bodyPart, err := textPart(email.Body, email.IsHTML)
	if err != nil {
		return nil, err
	}

	relatedParts := []*message.Entity{bodyPart}
	for i := range email.InlineAttachments {
		part, err := attachmentPart(&email.InlineAttachments[i], "inline")
		if err != nil {
			return nil, err
		}
		relatedParts = append(relatedParts, part)
	}

	var rh message.Header
	rh.SetContentType("multipart/related", nil)
	related, err := message.NewMultipart(rh, relatedParts)
	if err != nil {
		return nil, fmt.Errorf("build related part: %w", err)
	}

	mixedParts := []*message.Entity{related}
	for i := range email.Attachments {
		part, err := attachmentPart(&email.Attachments[i], "attachment")
		if err != nil {
			return nil, err
		}
		mixedParts = append(mixedParts, part)
	}

	return writeMessage(email, nil, mixedParts)
}

// EncodeSecure builds the RFC 822 byte stream for an encrypted message:
// the placeholder body, one key-exchange part per recipient, and the
// encrypted body part, all as direct children of the top-level multipart.
func EncodeSecure(email *Email, keyExchanges []*KeyExchangePart, body *BodyPart) ([]byte, error) {
	placeholder, err := textPart(EncryptedPlaceholder, false)
	if err != nil {
		return nil, err
	}

	parts := []*message.Entity{placeholder}
	for _, kx := range keyExchanges {
		part, err := keyExchangeEntity(kx)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	bodyEntity, err := securePart(ContentTypeBody, bodyFileName, body.EncryptedContent)
	if err != nil {
		return nil, err
	}
	parts = append(parts, bodyEntity)

	extra := map[string]string{HeaderEncrypted: "true"}
	return writeMessage(email, extra, parts)
}

// writeMessage assembles the top-level multipart/mixed entity with the
// message headers and serializes it.
func writeMessage(email *Email, extraHeaders map[string]string, parts []*message.Entity) ([]byte, error) {
	var th mail.Header
	th.SetDate(time.Now().UTC())
	th.SetSubject(email.Subject)
	th.SetMessageID(fmt.Sprintf("%s@%s", uuid.NewString(), messageIDDomain))

	if email.From != "" {
		th.SetAddressList("From", toAddressList([]string{email.From}))
	}
	setAddressHeader(&th, "To", email.To)
	setAddressHeader(&th, "Cc", email.Cc)
	// Bcc is carried in-message: in-network delivery never exposes the
	// envelope to a foreign relay, and encrypted bodies hide it anyway.
	setAddressHeader(&th, "Bcc", email.Bcc)

	if email.ReplyingMessageID != "" {
		th.SetMsgIDList("In-Reply-To", []string{email.ReplyingMessageID})
	}
	if email.ForwardingMessageID != "" {
		th.SetMsgIDList("References", []string{email.ForwardingMessageID})
	}

	for k, v := range extraHeaders {
		th.Set(k, v)
	}

	th.Set("Mime-Version", "1.0")
	th.SetContentType("multipart/mixed", nil)

	root, err := message.NewMultipart(th.Header, parts)
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}

	var buf bytes.Buffer
	if err := root.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize message: %w", err)
	}

	return buf.Bytes(), nil
}

func textPart(body string, html bool) (*message.Entity, error) {
	contentType := "text/plain"
	if html {
		contentType = "text/html"
	}

	var h message.Header
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	part, err := message.New(h, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build body part: %w", err)
	}
	return part, nil
}

func attachmentPart(att *Attachment, disposition string) (*message.Entity, error) {
	mimeType := att.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var h message.Header
	h.SetContentType(mimeType, map[string]string{"name": att.FileName})
	h.SetContentDisposition(disposition, map[string]string{"filename": att.FileName})
	h.Set("Content-Transfer-Encoding", "base64")
	if att.ContentID != "" {
		h.Set("Content-Id", "<"+att.ContentID+">")
	}

	part, err := message.New(h, bytes.NewReader(att.Data))
	if err != nil {
		return nil, fmt.Errorf("build attachment part %q: %w", att.FileName, err)
	}
	return part, nil
}

func keyExchangeEntity(kx *KeyExchangePart) (*message.Entity, error) {
	payload, err := marshalKeyExchange(kx)
	if err != nil {
		return nil, err
	}
	return securePart(ContentTypeKeyExchange, keyExchangeFileName, payload)
}

func securePart(contentType, fileName string, payload []byte) (*message.Entity, error) {
	var h message.Header
	h.SetContentType(contentType, map[string]string{"name": fileName})
	h.SetContentDisposition("attachment", map[string]string{"filename": fileName})
	h.Set("Content-Transfer-Encoding", "base64")
	h.Set("Content-Id", fmt.Sprintf("<%s@%s>", uuid.NewString(), messageIDDomain))

	part, err := message.New(h, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build secure part: %w", err)
	}
	return part, nil
}

func toAddressList(addrs []string) []*mail.Address {
	out := make([]*mail.Address, len(addrs))
	for i, a := range addrs {
		out[i] = &mail.Address{Address: a}
	}
	return out
}

func setAddressHeader(h *mail.Header, key string, addrs []string) {
	if len(addrs) == 0 {
		return
	}
	h.SetAddressList(key, toAddressList(addrs))
}
