package model

import "time"

// Holerite is a stored payslip attachment extracted from the mailbox.
// One row exists per processed message; email_uid is the server-assigned
// IMAP UID and is unique across all rows, which is what prevents a message
// from being ingested twice.
type Holerite struct {
	// ID is the internal surrogate identifier for this record.
	ID string `db:"id" json:"id"`

	// EmailUID is the IMAP UID of the originating message.
	EmailUID string `db:"email_uid" json:"email_uid"`

	// Sender is the display name or address of the message sender.
	Sender string `db:"sender" json:"sender"`

	// Subject is the message subject line.
	Subject string `db:"subject" json:"subject"`

	// MessageDate is the message timestamp; nil when the header was
	// missing or unparsable.
	MessageDate *time.Time `db:"message_date" json:"message_date"`

	// OriginalFilename is the attachment filename as sent.
	OriginalFilename string `db:"original_filename" json:"original_filename"`

	// FilePath is the stored relative path, e.g.
	// /uploads/holerites/2024-03-01_42_folha.pdf.
	FilePath string `db:"file_path" json:"file_path"`

	// FuncionarioID is an opaque reference to an employee record owned
	// by an external system; nil until linked.
	FuncionarioID *int64 `db:"funcionario_id" json:"funcionario_id"`

	// Processado is set once the record has been linked to an employee.
	Processado bool `db:"processado" json:"processado"`

	// CreatedAt is when this record was ingested.
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HoleriteWithFuncionario is a Holerite joined with the employee display
// name for listing.
type HoleriteWithFuncionario struct {
	Holerite

	// FuncionarioNome is the linked employee's display name, empty when
	// the record is not linked yet.
	FuncionarioNome string `db:"funcionario_nome" json:"funcionario_nome"`
}
