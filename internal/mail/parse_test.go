package mail

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMessage assembles a multipart message with the given attachment
// parts appended after a plain-text body part.
func buildMessage(from, subject, date string, parts ...string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: joao@empresa.com.br\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	if date != "" {
		b.WriteString("Date: " + date + "\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=frontier\r\n")
	b.WriteString("\r\n")
	b.WriteString("--frontier\r\n")
	b.WriteString("Content-Type: text/plain\r\n\r\n")
	b.WriteString("Segue em anexo.\r\n")
	for _, p := range parts {
		b.WriteString("--frontier\r\n")
		b.WriteString(p)
	}
	b.WriteString("--frontier--\r\n")
	return []byte(b.String())
}

// attachmentPart renders one base64 attachment part body.
func attachmentPart(filename, contentType string, data []byte) string {
	return "Content-Type: " + contentType + "\r\n" +
		"Content-Disposition: attachment; filename=\"" + filename + "\"\r\n" +
		"Content-Transfer-Encoding: base64\r\n\r\n" +
		base64.StdEncoding.EncodeToString(data) + "\r\n"
}

func TestParse_ExtractsFieldsAndAttachment(t *testing.T) {
	pdf := []byte("%PDF-1.4 conteudo")
	raw := buildMessage(
		"RH Empresa <rh@empresa.com.br>",
		"=?utf-8?q?Holerite_Mar=C3=A7o?=",
		"Fri, 01 Mar 2024 10:00:00 -0300",
		attachmentPart("folha.pdf", "application/pdf", pdf),
	)

	parsed, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "RH Empresa", parsed.Sender)
	assert.Equal(t, "Holerite Março", parsed.Subject)

	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("", -3*60*60))
	assert.True(t, parsed.Date.Equal(want), "got date %v", parsed.Date)

	require.Len(t, parsed.Attachments, 1)
	att := parsed.Attachments[0]
	assert.Equal(t, "folha.pdf", att.Filename)
	assert.Equal(t, "application/pdf", att.ContentType)
	assert.Equal(t, pdf, att.Data)
}

func TestParse_SenderFallsBackToAddress(t *testing.T) {
	raw := buildMessage(
		"rh@empresa.com.br",
		"Holerite",
		"Fri, 01 Mar 2024 10:00:00 -0300",
	)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "rh@empresa.com.br", parsed.Sender)
}

func TestParse_MissingDateIsZero(t *testing.T) {
	raw := buildMessage("rh@empresa.com.br", "Holerite", "")

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.True(t, parsed.Date.IsZero())
}

func TestParse_SkipsUndecodablePart(t *testing.T) {
	pdf := []byte("%PDF-1.4 conteudo")
	broken := "Content-Type: application/pdf\r\n" +
		"Content-Disposition: attachment; filename=\"quebrado.pdf\"\r\n" +
		"Content-Transfer-Encoding: base64\r\n\r\n" +
		"!!!nao-e-base64!!!\r\n"

	raw := buildMessage(
		"rh@empresa.com.br",
		"Holerite",
		"Fri, 01 Mar 2024 10:00:00 -0300",
		attachmentPart("folha.pdf", "application/pdf", pdf),
		broken,
	)

	parsed, err := Parse(raw)
	require.NoError(t, err)

	// The malformed part is dropped; the good one survives.
	require.Len(t, parsed.Attachments, 1)
	assert.Equal(t, "folha.pdf", parsed.Attachments[0].Filename)
}

func TestParse_UnreadableMessage(t *testing.T) {
	// A header block that is not a header block at all.
	raw := []byte("isto nao e um cabecalho\r\n\r\ncorpo\r\n")

	_, err := Parse(raw)
	require.Error(t, err)
}
