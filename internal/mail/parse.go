package mail

import (
	"bytes"
	"fmt"
	"io"

	"github.com/emersion/go-message/mail"
)

// Parse decodes a raw RFC 5322 message into its sender, subject, date,
// and attachment parts.
//
// The part walk is best-effort: a malformed part ends the walk but does
// not fail the message, so attachments decoded before the bad part are
// still returned. Parse only errors when the message itself is unreadable.
func Parse(raw []byte) (*ParsedMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}
	defer mr.Close()

	parsed := &ParsedMessage{}

	// Header decode failures (odd charsets, missing fields) leave the
	// corresponding field empty rather than failing the message.
	parsed.Subject, _ = mr.Header.Subject()
	if date, err := mr.Header.Date(); err == nil {
		parsed.Date = date
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		if from[0].Name != "" {
			parsed.Sender = from[0].Name
		} else {
			parsed.Sender = from[0].Address
		}
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}

		filename, _ := h.Filename()
		contentType, _, _ := h.ContentType()

		data, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		parsed.Attachments = append(parsed.Attachments, Attachment{
			Filename:    filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	return parsed, nil
}
