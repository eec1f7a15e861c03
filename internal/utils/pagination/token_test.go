package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard values
	cursor := Cursor{
		EntryDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		EntryID:   "3f1c7d1e-8d2a-4d8e-9a43-2b1f0c9e7a10",
	}
	token := EncodeToken(cursor)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "+", "token must be URL safe")
	assert.NotContains(t, token, "/", "token must be URL safe")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	// Non-UTC input comes back in UTC
	ist := time.FixedZone("IST", 5*60*60+30*60)
	local := Cursor{EntryDate: time.Date(2024, 1, 1, 3, 0, 0, 0, ist), CreatedAt: time.Date(2024, 1, 1, 3, 0, 0, 0, ist), EntryID: "e"}
	decoded, err = DecodeToken(EncodeToken(local))
	require.NoError(t, err)
	assert.True(t, local.EntryDate.Equal(decoded.EntryDate))
	assert.Equal(t, time.UTC, decoded.EntryDate.Location())
}

func TestDecodeTokenError(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	testCases := []struct {
		name  string
		token string
		want  string
	}{
		{"invalid base64", "this is not base64!", "base64 decode"},
		{"missing separator", enc("2023-05-15T00:00:00Z"), "split"},
		{"missing entry id", enc("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"), "split"},
		{"invalid entry date", enc("notadate|2023-05-15T14:30:45Z|e1"), "entry date parse"},
		{"invalid created at", enc("2023-05-15T00:00:00Z|later|e1"), "created_at parse"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeToken(tc.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
