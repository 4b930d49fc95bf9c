package storage

import (
	"regexp"
	"strings"
)

// MaxUploadSizeBytes bounds a single attachment.
const MaxUploadSizeBytes = 15 * 1024 * 1024

// RequestAllowedMimeTypes is the attachment allow-list for lead uploads.
var RequestAllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/avif",
	"application/pdf",
	"application/zip",
	"application/x-zip-compressed",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ProjectAllowedMimeTypes is the allow-list for portfolio media.
var ProjectAllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/avif",
}

// IsAllowedMimeType reports whether mimeType is in allowed.
func IsAllowedMimeType(mimeType string, allowed []string) bool {
	for _, a := range allowed {
		if a == mimeType {
			return true
		}
	}
	return false
}

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	unsafeRe   = regexp.MustCompile(`[^\w\x{0600}-\x{06FF}.-]`)
	multiDash  = regexp.MustCompile(`-+`)
	absURLRe   = regexp.MustCompile(`^https?://`)
	prefixSafe = regexp.MustCompile(`[^a-zA-Z0-9/_-]`)
)

// SanitizeFileName makes an uploaded file name safe for an object key,
// preserving Persian characters.
func SanitizeFileName(name string) string {
	s := strings.TrimSpace(name)
	s = spaceRe.ReplaceAllString(s, "-")
	s = unsafeRe.ReplaceAllString(s, "")
	s = multiDash.ReplaceAllString(s, "-")
	if r := []rune(s); len(r) > 120 {
		s = string(r[:120])
	}
	if s == "" {
		return "file"
	}
	return s
}

// SanitizePrefix strips anything outside the allowed key-prefix alphabet.
func SanitizePrefix(prefix string) string {
	return prefixSafe.ReplaceAllString(prefix, "")
}

// IsAbsoluteURL reports whether key is already an http(s) URL rather than
// an object key. Such keys have no backing object of ours to delete.
func IsAbsoluteURL(key string) bool {
	return absURLRe.MatchString(key)
}
