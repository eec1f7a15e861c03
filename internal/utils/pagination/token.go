package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor is the position of the last row of a page of entries ordered by
// entry date, creation time and ID (all descending).
type Cursor struct {
	EntryDate time.Time
	CreatedAt time.Time
	EntryID   string
}

// EncodeToken turns a cursor into an opaque URL-safe token.
func EncodeToken(c Cursor) string {
	tokenStr := strings.Join([]string{
		c.EntryDate.UTC().Format(timeFormat),
		c.CreatedAt.UTC().Format(timeFormat),
		c.EntryID,
	}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return Cursor{EntryDate: entryDate, CreatedAt: createdAt, EntryID: parts[2]}, nil
}
