package attachment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folharh/holerite-sync/internal/mail"
)

func TestQualifies(t *testing.T) {
	assert.True(t, Qualifies("application/pdf"))
	assert.True(t, Qualifies("image/png"))
	assert.True(t, Qualifies("image/jpeg"))

	assert.False(t, Qualifies("text/plain"))
	assert.False(t, Qualifies("application/zip"))
	assert.False(t, Qualifies("application/pdf; charset=binary"))

	// Matching is case-sensitive.
	assert.False(t, Qualifies("Application/PDF"))
	assert.False(t, Qualifies("IMAGE/png"))
}

func TestSelect_FiltersAndPreservesOrder(t *testing.T) {
	parsed := &mail.ParsedMessage{
		Attachments: []mail.Attachment{
			{Filename: "notas.txt", ContentType: "text/plain"},
			{Filename: "folha.pdf", ContentType: "application/pdf"},
			{Filename: "recibo.png", ContentType: "image/png"},
			{Filename: "dados.zip", ContentType: "application/zip"},
		},
	}

	got := Select(parsed)
	require.Len(t, got, 2)
	assert.Equal(t, "folha.pdf", got[0].Filename)
	assert.Equal(t, "recibo.png", got[1].Filename)
}

func TestSelect_Empty(t *testing.T) {
	assert.Empty(t, Select(&mail.ParsedMessage{}))
}

func TestDeriveFileName(t *testing.T) {
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	name := DeriveFileName(date, "42", "folha.pdf")
	assert.Equal(t, "2024-03-01_42_folha.pdf", name)
}

func TestDeriveFileName_SanitizesUnsafeCharacters(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	name := DeriveFileName(date, "7", "folha março/2024 (final).pdf")
	assert.Equal(t, "2024-03-01_7_folha_mar_o_2024__final_.pdf", name)
}

func TestDeriveFileName_UnknownDate(t *testing.T) {
	name := DeriveFileName(time.Time{}, "9", "folha.pdf")
	assert.Equal(t, "unknown_9_folha.pdf", name)
}

func TestDeriveFileName_NoCollisionAcrossUIDs(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	a := DeriveFileName(date, "42", "folha.pdf")
	b := DeriveFileName(date, "43", "folha.pdf")
	assert.NotEqual(t, a, b)
}

func TestDeriveFileName_Idempotent(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	a := DeriveFileName(date, "42", "folha.pdf")
	b := DeriveFileName(date, "42", "folha.pdf")
	assert.Equal(t, a, b)
}
