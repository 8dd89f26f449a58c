package model

import (
	"database/sql"
	"time"
)

// Now returns the current time in UTC. Stored timestamps are always UTC so
// that SQLite's text comparison orders them correctly.
func Now() time.Time {
	return time.Now().UTC()
}

// NullTimeFromPtr creates a sql.NullTime from a *time.Time, normalised to UTC.
// Returns an invalid NullTime if the pointer is nil.
func NullTimeFromPtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// TimePtr converts a sql.NullTime to *time.Time.
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// NullString wraps s, treating the empty string as NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringPtr wraps a *string, treating nil as NULL.
func NullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts a sql.NullString to *string.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// NullInt64Ptr wraps a *int, treating nil as NULL.
func NullInt64Ptr(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// IntPtr converts a sql.NullInt64 to *int.
func IntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
