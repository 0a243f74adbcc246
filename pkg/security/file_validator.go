package security

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	ErrFileEmpty       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrFileExtension   = errors.New("file extension not allowed")
	ErrFileSpoofed     = errors.New("file content does not match extension")
	ErrFileContentType = errors.New("file type not allowed")
)

// Magic byte signatures for allowed file types
// Maps lowercase extension to possible magic byte prefixes
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
}

// FileRule constrains what may be stored in one attachment slot.
type FileRule struct {
	MaxBytes   int64
	Extensions []string
	MIMETypes  []string
}

// ImageRule accepts the raster formats browsers render as avatars.
func ImageRule(maxBytes int64) FileRule {
	return FileRule{
		MaxBytes:   maxBytes,
		Extensions: []string{".jpg", ".jpeg", ".png", ".gif"},
		MIMETypes:  []string{"image/jpeg", "image/png", "image/gif"},
	}
}

// PDFRule accepts PDF documents only.
func PDFRule(maxBytes int64) FileRule {
	return FileRule{
		MaxBytes:   maxBytes,
		Extensions: []string{".pdf"},
		MIMETypes:  []string{"application/pdf"},
	}
}

// ValidateFile performs 3-layer file validation:
// 1. Size and extension whitelist
// 2. Magic byte verification (content matches extension)
// 3. Sniffed MIME type whitelist
// It returns the normalized extension on success.
func ValidateFile(filename string, data []byte, rule FileRule) (string, error) {
	if len(data) == 0 {
		return "", ErrFileEmpty
	}
	if rule.MaxBytes > 0 && int64(len(data)) > rule.MaxBytes {
		return "", fmt.Errorf("%w (%d bytes max)", ErrFileTooLarge, rule.MaxBytes)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(rule.Extensions, ext) {
		return "", fmt.Errorf("%w: %q (allowed: %s)", ErrFileExtension, ext, strings.Join(rule.Extensions, ", "))
	}

	if !validateMagicBytes(ext, data) {
		return "", ErrFileSpoofed
	}

	detected := http.DetectContentType(data)
	if !contains(rule.MIMETypes, detected) {
		return "", fmt.Errorf("%w: %s", ErrFileContentType, detected)
	}

	return ext, nil
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}

	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// IsImageExtension checks if the extension is an image type
func IsImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
