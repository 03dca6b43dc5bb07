package mail

import "time"

// RawMessage is one fetched message before parsing: the server-assigned
// UID plus the undecoded RFC 5322 bytes. It is handed to Parse and then
// discarded.
type RawMessage struct {
	UID  string
	Body []byte
}

// ParsedMessage holds the decoded fields of a fetched message.
type ParsedMessage struct {
	// Sender is the From display name, falling back to the address.
	Sender string

	// Subject is the decoded subject line.
	Subject string

	// Date is the message timestamp; zero when the header was missing
	// or unparsable.
	Date time.Time

	// Attachments are the message's attachment parts, in body order.
	Attachments []Attachment
}

// Attachment is a single decoded attachment part.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}
