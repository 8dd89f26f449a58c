package model

import (
	"strconv"
	"strings"
)

// ParseID parses a positive integer row id.
// Returns 0 and false if s is not one.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FormatID renders an id for use in URLs, tokens and messages.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
