package sealmail

import (
	"bytes"
	"errors"
	"testing"
)

func TestCodec_RoundTrip(t *testing.T) {
	msg := &Message{
		From:    "alice@example.com",
		To:      []string{"bob@example.com", "carol@example.com"},
		Cc:      []string{"dave@example.com"},
		Subject: "minutes",
		Body:    "Notes from today's call.",
		Attachments: []Attachment{
			{FileName: "minutes.txt", MimeType: "text/plain", Data: []byte("1. intro\n2. roadmap\n")},
		},
	}

	raw, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage() error: %v", err)
	}

	got, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}

	if got.From != msg.From {
		t.Errorf("From = %q, want %q", got.From, msg.From)
	}
	if len(got.To) != 2 || got.To[0] != "bob@example.com" {
		t.Errorf("To = %v, want %v", got.To, msg.To)
	}
	if got.Subject != msg.Subject {
		t.Errorf("Subject = %q, want %q", got.Subject, msg.Subject)
	}
	if got.Body != msg.Body {
		t.Errorf("Body = %q, want %q", got.Body, msg.Body)
	}
	if got.IsHTML {
		t.Error("plain text message parsed as HTML")
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(got.Attachments))
	}
	if !bytes.Equal(got.Attachments[0].Data, msg.Attachments[0].Data) {
		t.Error("attachment data mismatch")
	}
}

func TestCodec_HTMLWithInlineImage(t *testing.T) {
	msg := &Message{
		From:    "alice@example.com",
		To:      []string{"bob@example.com"},
		Subject: "logo",
		Body:    `<html><p>New logo:</p><img src="cid:logo-1"></html>`,
		IsHTML:  true,
		InlineAttachments: []Attachment{
			{FileName: "logo.png", ContentID: "logo-1", MimeType: "image/png", Inline: true, Data: []byte{0x89, 'P', 'N', 'G'}},
		},
	}

	raw, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage() error: %v", err)
	}
	got, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}

	if !got.IsHTML {
		t.Error("HTML message parsed as plain text")
	}
	if len(got.InlineAttachments) != 1 {
		t.Fatalf("got %d inline attachments, want 1", len(got.InlineAttachments))
	}
	if got.InlineAttachments[0].ContentID != "logo-1" {
		t.Errorf("ContentID = %q, want logo-1", got.InlineAttachments[0].ContentID)
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	_, err := ParseMessage([]byte("this line has no header colon\r\n\r\nbody"))
	if !errors.Is(err, ErrMalformedMIME) {
		t.Errorf("ParseMessage(malformed) = %v, want ErrMalformedMIME", err)
	}
}
