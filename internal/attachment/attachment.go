// Package attachment selects qualifying attachment parts and derives the
// collision-resistant names they are stored under.
package attachment

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/folharh/holerite-sync/internal/mail"
)

// Qualifies reports whether a content type is accepted for ingestion:
// exactly application/pdf, or any image/* type. Everything else is
// excluded silently.
func Qualifies(contentType string) bool {
	return contentType == "application/pdf" ||
		strings.HasPrefix(contentType, "image/")
}

// Select returns the qualifying attachments of a parsed message, in
// original order.
func Select(parsed *mail.ParsedMessage) []mail.Attachment {
	var qualifying []mail.Attachment
	for _, att := range parsed.Attachments {
		if Qualifies(att.ContentType) {
			qualifying = append(qualifying, att)
		}
	}
	return qualifying
}

// unsafeChars matches every character that may not appear in a stored
// filename.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// DeriveFileName composes the stored filename for an attachment:
// {date}_{uid}_{sanitized original name}, with date formatted YYYY-MM-DD
// or the literal "unknown" when the message carried no usable timestamp.
//
// The composition is deterministic, so retries for the same message and
// attachment always produce the same name, and attachments with identical
// original names never collide across message UIDs.
func DeriveFileName(date time.Time, uid, original string) string {
	datePart := "unknown"
	if !date.IsZero() {
		datePart = date.Format("2006-01-02")
	}

	safe := unsafeChars.ReplaceAllString(original, "_")

	return fmt.Sprintf("%s_%s_%s", datePart, uid, safe)
}
