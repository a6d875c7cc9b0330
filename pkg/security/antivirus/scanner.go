// Package antivirus checks uploaded bytes for malware before they are stored.
package antivirus

import "context"

// Result is the verdict for one scanned file.
type Result struct {
	Infected bool
	Threat   string // signature name when Infected
	Scanner  string
}

// Scanner inspects file contents. A non-nil error means no verdict was
// reached; callers must treat that as a rejection.
type Scanner interface {
	Scan(ctx context.Context, data []byte) (Result, error)
	Name() string
}
