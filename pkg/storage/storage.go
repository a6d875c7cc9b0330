package storage

import (
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Reference prefixes. A stored reference is "<prefix>/<folder>/<name>".
const (
	PrefixUploads     = "/uploads"
	PrefixUserUploads = "/user-uploads"
)

var (
	ErrNotFound   = errors.New("storage: object not found")
	ErrInvalidRef = errors.New("storage: invalid reference")
)

// splitRef validates a root-relative reference and returns its mount prefix
// and the cleaned remainder.
func splitRef(ref string) (string, string, error) {
	if !strings.HasPrefix(ref, "/") || strings.Contains(ref, "\\") {
		return "", "", ErrInvalidRef
	}
	clean := path.Clean(ref)
	if clean != ref || strings.Contains(clean, "/../") {
		return "", "", ErrInvalidRef
	}
	parts := strings.SplitN(strings.TrimPrefix(clean, "/"), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", ErrInvalidRef
	}
	return "/" + parts[0], parts[1], nil
}

// IsLocalRef reports whether ref points into storage rather than at a remote
// URL.
func IsLocalRef(ref string) bool {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//") {
		return false
	}
	_, _, err := splitRef(ref)
	return err == nil
}

// SanitizeFilename keeps ASCII letters, digits, '-' and '_' from the base
// name and lower-cases the extension.
func SanitizeFilename(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(filename, "\\", "/")), path.Ext(filename))
	base = strings.ReplaceAll(base, " ", "_")

	var b strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "file"
	}
	if len(name) > 60 {
		name = name[:60]
	}
	return name + ext
}

// ObjectName builds a collision-free stored name for an upload.
func ObjectName(ownerID, filename string) string {
	id := uuid.New().String()
	if ownerID != "" {
		id = ownerID + "-" + id[:8]
	}
	return id + "-" + SanitizeFilename(filename)
}
