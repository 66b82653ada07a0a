package stream

import (
	"fmt"
	"strconv"
	"strings"
)

// Cursor orders stream values: the append time in milliseconds in the high
// 32 bits, a sequence number in the low ones.
type Cursor uint64

type CursorAware interface {
	SetCursor(cursor Cursor)
}

func (c Cursor) String() string {
	s := strconv.FormatUint(uint64(c), 16)
	return strings.Repeat("0", 16-len(s)) + s
}

func (c Cursor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cursor) UnmarshalText(b []byte) error {
	cur, err := ParseCursor(string(b))
	if err == nil {
		*c = cur
	}
	return err
}

func ParseCursor(s string) (Cursor, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q: %w", s, err)
	}
	return Cursor(n), nil
}
