package security

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webp": {{0x52, 0x49, 0x46, 0x46}},                         // RIFF
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP
}

// Sniffed MIME types accepted per extension. application/octet-stream is
// never accepted.
var extensionMIMEs = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

var (
	ImageExtensions       = []string{".jpg", ".jpeg", ".png", ".webp"}
	ResumeExtensions      = []string{".pdf", ".doc", ".docx"}
	CertificateExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf"}
)

// ValidateFile checks, in order, the extension against allowed, the leading
// magic bytes against the extension, and the sniffed MIME type against the
// extension.
func ValidateFile(filename string, data []byte, allowed []string) FileValidationResult {
	var result FileValidationResult

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if !contains(allowed, ext) {
		result.Error = fmt.Sprintf("file type %s not allowed; allowed: %s", ext, strings.Join(allowed, ", "))
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	mtype := mimetype.Detect(data)
	result.DetectedMIME = mtype.String()
	if !mimeAllowed(ext, mtype) {
		result.Error = "MIME type not allowed: " + mtype.String()
		return result
	}

	result.Valid = true
	return result
}

func mimeAllowed(ext string, mtype *mimetype.MIME) bool {
	for _, want := range extensionMIMEs[ext] {
		if mtype.Is(want) {
			return true
		}
	}
	return false
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// IsImageExtension reports whether ext is one of ImageExtensions.
func IsImageExtension(ext string) bool {
	return contains(ImageExtensions, strings.ToLower(ext))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
