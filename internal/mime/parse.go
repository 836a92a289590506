package mime

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/sirupsen/logrus"
)

type parser struct {
	log logrus.FieldLogger
}

// Parse decodes an RFC 822 byte stream into its structured projection.
//
// The part tree is partitioned recursively into viewable parts and
// attachments; the body is assembled from the viewable parts afterwards,
// and only then are attachments reclassified as inline, because the cid:
// cross-reference needs the finished body text.
func Parse(raw []byte, log logrus.FieldLogger) (*Email, error) {
	if log == nil {
		log = discardLogger()
	}

	root, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	email := &Email{}
	readEnvelope(root, email)

	p := &parser{log: log}
	views, attachments, err := p.partition(root)
	if err != nil {
		return nil, err
	}

	email.Body, email.IsHTML = assembleBody(views)

	for i := range attachments {
		if attachments[i].ContentID != "" && strings.Contains(email.Body, "cid:"+attachments[i].ContentID) {
			attachments[i].Inline = true
		}
	}
	for _, att := range attachments {
		if att.Inline {
			email.InlineAttachments = append(email.InlineAttachments, att)
		} else {
			email.Attachments = append(email.Attachments, att)
		}
	}

	return email, nil
}

func readEnvelope(e *message.Entity, email *Email) {
	mh := mail.Header{Header: e.Header}

	if subject, err := mh.Subject(); err == nil {
		email.Subject = subject
	}

	email.From = firstAddress(mh, "From")
	email.To = addresses(mh, "To")
	email.Cc = addresses(mh, "Cc")
	email.Bcc = addresses(mh, "Bcc")

	if ids, err := mh.MsgIDList("In-Reply-To"); err == nil && len(ids) > 0 {
		email.ReplyingMessageID = ids[0]
	} else if refs, err := mh.MsgIDList("References"); err == nil && len(refs) > 0 {
		email.ForwardingMessageID = refs[0]
	}
}

// partition recursively splits a part tree into viewable parts and
// attachments. It is pure: results propagate up through return values, so
// per-part work stays independently callable.
func (p *parser) partition(e *message.Entity) ([]viewablePart, []Attachment, error) {
	contentType, ctParams, err := e.Header.ContentType()
	if err != nil {
		p.log.WithError(err).Debug("dropping part with unparsable content type")
		return nil, nil, nil
	}

	disposition, dispParams, _ := e.Header.ContentDisposition()

	if fileName := partFileName(ctParams, dispParams); fileName != "" {
		data, err := io.ReadAll(e.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("read attachment %q: %w", fileName, err)
		}
		att := Attachment{
			FileName:  fileName,
			ContentID: contentID(e.Header),
			MimeType:  contentType,
			Inline:    disposition == "inline",
			Data:      data,
		}
		return nil, []Attachment{att}, nil
	}

	switch {
	case contentType == "multipart/alternative":
		return p.resolveAlternative(e)

	case strings.HasPrefix(contentType, "multipart/"):
		children, err := p.children(e)
		if err != nil {
			return nil, nil, err
		}
		var views []viewablePart
		var attachments []Attachment
		for _, child := range children {
			v, a, err := p.partition(child)
			if err != nil {
				return nil, nil, err
			}
			views = append(views, v...)
			attachments = append(attachments, a...)
		}
		return views, attachments, nil

	case contentType == "message/rfc822":
		return p.partitionNested(e)

	case contentType == "text/calendar":
		data, err := io.ReadAll(e.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("read calendar part: %w", err)
		}
		att := Attachment{
			FileName:  "invite.ics",
			ContentID: contentID(e.Header),
			MimeType:  contentType,
			Data:      data,
		}
		return nil, []Attachment{att}, nil

	case strings.HasPrefix(contentType, "text/"):
		data, err := io.ReadAll(e.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("read text part: %w", err)
		}
		// Transfer encodings are free to rewrite line endings; normalize
		// so callers see the same body the sender composed.
		text := strings.ReplaceAll(string(data), "\r\n", "\n")
		return []viewablePart{{text: text, html: contentType == "text/html"}}, nil, nil

	default:
		p.log.WithField("contentType", contentType).Debug("dropping unrenderable part")
		return nil, nil, nil
	}
}

// resolveAlternative picks one branch of a multipart/alternative part.
// Children are scanned last to first: alternative parts are conventionally
// ordered plain-text-first and richest-last, so scanning backward finds
// the richest representation without assuming exactly two children. The
// scan stops as soon as an HTML part has been accumulated.
func (p *parser) resolveAlternative(e *message.Entity) ([]viewablePart, []Attachment, error) {
	children, err := p.children(e)
	if err != nil {
		return nil, nil, err
	}

	var views []viewablePart
	var attachments []Attachment
	for i := len(children) - 1; i >= 0; i-- {
		v, a, err := p.partition(children[i])
		if err != nil {
			return nil, nil, err
		}
		views = append(views, v...)
		attachments = append(attachments, a...)

		if hasHTML(views) {
			break
		}
	}

	return views, attachments, nil
}

// partitionNested handles an embedded message/rfc822 part: its headers
// become a viewable block and its content is partitioned like any other
// tree.
func (p *parser) partitionNested(e *message.Entity) ([]viewablePart, []Attachment, error) {
	raw, err := io.ReadAll(e.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read nested message: %w", err)
	}

	inner, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		p.log.WithError(err).Debug("dropping unparsable nested message")
		return nil, nil, nil
	}

	views := []viewablePart{{text: nestedHeaderBlock(inner), nested: true}}

	v, a, err := p.partition(inner)
	if err != nil {
		return nil, nil, err
	}
	views = append(views, v...)

	return views, a, nil
}

// children materializes the sub-parts of a multipart entity. Bodies are
// buffered because a MultipartReader invalidates each part on the next
// call, and alternative resolution needs random access.
func (p *parser) children(e *message.Entity) ([]*message.Entity, error) {
	mr := e.MultipartReader()
	if mr == nil {
		return nil, fmt.Errorf("%w: expected multipart content", ErrMalformed)
	}

	var out []*message.Entity
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("read part body: %w", err)
		}

		out = append(out, &message.Entity{Header: part.Header, Body: bytes.NewReader(body)})
	}

	return out, nil
}

// assembleBody joins viewable parts into the final body. Any HTML part or
// nested-message header block forces HTML assembly.
func assembleBody(views []viewablePart) (body string, isHTML bool) {
	if len(views) == 0 {
		return "", false
	}

	html := false
	for _, v := range views {
		if v.html || v.nested {
			html = true
			break
		}
	}

	texts := make([]string, len(views))
	for i, v := range views {
		texts[i] = v.text
	}

	if !html {
		return strings.Join(texts, "\n\n"), false
	}

	body = strings.Join(texts, "<br>")
	if !strings.Contains(strings.ToLower(body), "<html") {
		body = "<html>" + body + "</html>"
	}
	return body, true
}

func hasHTML(views []viewablePart) bool {
	for _, v := range views {
		if v.html {
			return true
		}
	}
	return false
}

func nestedHeaderBlock(e *message.Entity) string {
	mh := mail.Header{Header: e.Header}

	var b strings.Builder
	b.WriteString("---------- Forwarded message ----------<br>")
	if from := firstAddress(mh, "From"); from != "" {
		fmt.Fprintf(&b, "From: %s<br>", from)
	}
	if date, err := mh.Date(); err == nil && !date.IsZero() {
		fmt.Fprintf(&b, "Date: %s<br>", date.Format("Mon, 2 Jan 2006 15:04:05 -0700"))
	}
	if subject, err := mh.Subject(); err == nil && subject != "" {
		fmt.Fprintf(&b, "Subject: %s<br>", subject)
	}
	if to := addresses(mh, "To"); len(to) > 0 {
		fmt.Fprintf(&b, "To: %s<br>", strings.Join(to, ", "))
	}

	return b.String()
}

func partFileName(ctParams, dispParams map[string]string) string {
	if name := dispParams["filename"]; name != "" {
		return name
	}
	return ctParams["name"]
}

func contentID(h message.Header) string {
	id := h.Get("Content-Id")
	id = strings.TrimPrefix(id, "<")
	return strings.TrimSuffix(id, ">")
}

func firstAddress(mh mail.Header, key string) string {
	addrs := addresses(mh, key)
	if len(addrs) == 0 {
		return ""
	}
	return addrs[0]
}

func addresses(mh mail.Header, key string) []string {
	list, err := mh.AddressList(key)
	if err != nil || len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Address
	}
	return out
}
