package repository

import "strings"

// IsUniqueViolation reports whether err is a SQLite unique-constraint
// failure. The sqlite driver only exposes this through the error text.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
