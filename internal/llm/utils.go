package llm

import (
	"encoding/base64"
)

// EncodeDataURL wraps raw image bytes as a base64 data URL for providers
// that take inline images.
func EncodeDataURL(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
