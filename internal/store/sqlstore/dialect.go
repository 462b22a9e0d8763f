package sqlstore

import (
	"strconv"
	"strings"
	"time"
)

// Dialect captures the few places where SQL backends disagree.
type Dialect struct {
	// Name identifies the backend in logs.
	Name string

	// NumberedPlaceholders rewrites "?" to "$1", "$2", ...
	NumberedPlaceholders bool

	// IsUniqueViolation reports whether err came from a unique index.
	IsUniqueViolation func(err error) bool

	// TimeArg converts a timestamp into a driver argument.
	TimeArg func(t time.Time) any
}

// bind rewrites placeholders for the dialect. Queries in this package never
// contain a literal '?', so a plain scan is enough.
func (d Dialect) bind(query string) string {
	if !d.NumberedPlaceholders {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := range len(query) {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// FormatTime formats a time for TEXT storage (RFC3339Nano, UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// normalizeTime drops precision finer than a microsecond so every backend
// round-trips the same value.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
