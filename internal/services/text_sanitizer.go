package services

import (
	"regexp"
	"strings"
)

// Character classes that routinely leak out of PDF and office file
// extraction: control characters (newlines and tabs excepted),
// zero-width marks and BOMs.
var (
	controlCharsRegex = regexp.MustCompile(`[\x00-\x08\x0B-\x0C\x0E-\x1F]`)
	zeroWidthRegex    = regexp.MustCompile("[\u200B-\u200F\uFEFF]")
	nbspRegex         = regexp.MustCompile("\u00A0")
)

type TextSanitizer struct{}

func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{}
}

// Normalize strips problem characters from extracted text and trims
// surrounding whitespace. Inner whitespace is left alone so that page
// and slide ordering survives intact.
func (ts *TextSanitizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	sanitized := controlCharsRegex.ReplaceAllString(text, "")
	sanitized = zeroWidthRegex.ReplaceAllString(sanitized, "")
	sanitized = nbspRegex.ReplaceAllString(sanitized, " ")

	return strings.TrimSpace(sanitized)
}
