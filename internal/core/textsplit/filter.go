package textsplit

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	pageMarkerRe = regexp.MustCompile(`(?i)--\s*\d+\s*of\s*\d+\s*--`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

const (
	// Extracted text shorter than this (ignoring whitespace) is noise.
	minReadableChars = 50
	// Minimum fraction of ASCII letters for text to count as readable.
	minLetterRatio = 0.3
)

// Clean strips "-- N of M --" page markers, collapses whitespace runs to a
// single space, and trims the ends.
func Clean(text string) string {
	text = pageMarkerRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// IsReadable reports whether extracted text looks like genuine prose rather
// than decode noise. A text layer that decodes to mostly symbols fails the
// letter-ratio check and should be routed through OCR instead.
func IsReadable(text string) bool {
	if text == "" {
		return false
	}

	var total, letters int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	if total < minReadableChars {
		return false
	}
	return float64(letters)/float64(total) > minLetterRatio
}
