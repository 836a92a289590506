package sealmail

import "github.com/sealmail/client-go/internal/mime"

// Message is a composed or parsed email.
//
// Body holds the viewable content. When IsHTML is true the body is an HTML
// document and InlineAttachments may be referenced from it via cid: URLs.
type Message struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string

	Body   string
	IsHTML bool

	Attachments       []Attachment
	InlineAttachments []Attachment

	// ReplyingMessageID is the Message-ID this message replies to, if any.
	ReplyingMessageID string
	// ForwardingMessageID is the Message-ID this message forwards, if any.
	ForwardingMessageID string
}

// Attachment is a file carried by a message. Inline attachments are
// referenced from an HTML body by ContentID.
type Attachment struct {
	FileName  string
	ContentID string
	MimeType  string
	Inline    bool
	Data      []byte
}

func toMIMEEmail(m *Message) *mime.Email {
	return &mime.Email{
		From:                m.From,
		To:                  append([]string(nil), m.To...),
		Cc:                  append([]string(nil), m.Cc...),
		Bcc:                 append([]string(nil), m.Bcc...),
		Subject:             m.Subject,
		Body:                m.Body,
		IsHTML:              m.IsHTML,
		Attachments:         toMIMEAttachments(m.Attachments),
		InlineAttachments:   toMIMEAttachments(m.InlineAttachments),
		ReplyingMessageID:   m.ReplyingMessageID,
		ForwardingMessageID: m.ForwardingMessageID,
	}
}

func fromMIMEEmail(e *mime.Email) *Message {
	return &Message{
		From:                e.From,
		To:                  e.To,
		Cc:                  e.Cc,
		Bcc:                 e.Bcc,
		Subject:             e.Subject,
		Body:                e.Body,
		IsHTML:              e.IsHTML,
		Attachments:         fromMIMEAttachments(e.Attachments),
		InlineAttachments:   fromMIMEAttachments(e.InlineAttachments),
		ReplyingMessageID:   e.ReplyingMessageID,
		ForwardingMessageID: e.ForwardingMessageID,
	}
}

func toMIMEAttachments(in []Attachment) []mime.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]mime.Attachment, len(in))
	for i, a := range in {
		out[i] = mime.Attachment{
			FileName:  a.FileName,
			ContentID: a.ContentID,
			MimeType:  a.MimeType,
			Inline:    a.Inline,
			Data:      a.Data,
		}
	}
	return out
}

func fromMIMEAttachments(in []mime.Attachment) []Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attachment, len(in))
	for i, a := range in {
		out[i] = Attachment{
			FileName:  a.FileName,
			ContentID: a.ContentID,
			MimeType:  a.MimeType,
			Inline:    a.Inline,
			Data:      a.Data,
		}
	}
	return out
}
