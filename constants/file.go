package constants

import "strings"

// FileTypes holds the allowed source formats for a document job.
var FileTypes = []string{"PDF", "IMAGE"}

// AllowedMimeTypes maps the media types we accept to their source format.
var AllowedMimeTypes = map[string]string{
	"application/pdf": "PDF",
	"image/jpeg":      "IMAGE",
	"image/png":       "IMAGE",
	"image/webp":      "IMAGE",
}

// AllowedExtensions holds the default allowed file extensions for directory ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// mimeByExtension maps a normalized extension to its media type.
var mimeByExtension = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// MimeForExt returns the media type for a file extension (with or without
// the leading dot), or false when the extension is not supported.
func MimeForExt(ext string) (string, bool) {
	m, ok := mimeByExtension[NormalizeExt(ext)]
	return m, ok
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatForMime returns the source format for a declared media type,
// or false when the media type is not supported.
func FormatForMime(mimeType string) (string, bool) {
	f, ok := AllowedMimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	return f, ok
}
