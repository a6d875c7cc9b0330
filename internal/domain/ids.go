package domain

import "regexp"

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectID reports whether s has the 24-character hexadecimal shape of a
// database-generated identifier.
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}
