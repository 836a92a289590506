package mime

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrMalformed is returned when a byte stream cannot be parsed as a MIME
// message at all. Individual unrenderable parts inside an otherwise valid
// message are dropped instead.
var ErrMalformed = errors.New("malformed mime message")

// Email is the structured projection of a MIME message: the input to
// Encode and the output of Parse.
type Email struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string

	// Body is the assembled message body; HTML when IsHTML is set.
	Body   string
	IsHTML bool

	Attachments       []Attachment
	InlineAttachments []Attachment

	// ReplyingMessageID is the Message-ID this message replies to
	// (In-Reply-To header).
	ReplyingMessageID string
	// ForwardingMessageID is the Message-ID this message forwards
	// (References header, when not a reply).
	ForwardingMessageID string
}

// Attachment is a single attachment part.
type Attachment struct {
	FileName  string
	ContentID string
	MimeType  string
	Inline    bool
	Data      []byte
}

// viewablePart is one renderable fragment accumulated during partitioning.
type viewablePart struct {
	text string
	html bool
	// nested marks the rendered header block of an embedded message;
	// its presence forces HTML body assembly.
	nested bool
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
