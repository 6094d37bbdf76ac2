package utils

import (
	"database/sql"
	"strings"
)

// NullStringToStringPtr converts a sql.NullString to a *string.
func NullStringToStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// StringPtrOrNull converts a trimmed string to a *string, mapping the
// empty string to nil.
func StringPtrOrNull(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
