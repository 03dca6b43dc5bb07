package mail

import (
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCriteria_SingleKeyword(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	criteria := BuildCriteria([]string{"holerite"}, since)

	assert.Equal(t, since, criteria.Since)
	require.Len(t, criteria.Header, 1)
	assert.Equal(t, "Subject", criteria.Header[0].Key)
	assert.Equal(t, "holerite", criteria.Header[0].Value)
	assert.Empty(t, criteria.Or)
}

func TestBuildCriteria_KeywordsAreORed(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	criteria := BuildCriteria(
		[]string{"holerite", "contracheque", "folha de pagamento"}, since,
	)

	assert.Equal(t, since, criteria.Since)
	assert.Empty(t, criteria.Header)

	// ((holerite OR contracheque) OR folha de pagamento)
	require.Len(t, criteria.Or, 1)
	left, right := criteria.Or[0][0], criteria.Or[0][1]

	require.Len(t, right.Header, 1)
	assert.Equal(t, "folha de pagamento", right.Header[0].Value)

	require.Len(t, left.Or, 1)
	assert.Equal(t, "holerite", left.Or[0][0].Header[0].Value)
	assert.Equal(t, "contracheque", left.Or[0][1].Header[0].Value)
}

func TestBuildCriteria_NoKeywords(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	criteria := BuildCriteria(nil, since)

	assert.Equal(t, &imap.SearchCriteria{Since: since}, criteria)
}
