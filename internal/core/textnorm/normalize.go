package textnorm

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Word characters here are Unicode letters, digits and underscore, so
	// Cyrillic answers survive normalization. Hyphens are kept for names
	// like "Нур-Султан".
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases text, replaces punctuation with spaces, collapses
// whitespace runs and trims. It is idempotent.
func Normalize(text string) string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// NumericForm strips internal spaces and maps decimal commas to dots.
func NumericForm(text string) string {
	stripped := strings.ReplaceAll(text, " ", "")
	return strings.ReplaceAll(stripped, ",", ".")
}

// IsNumber reports whether text parses as a floating-point number after
// NumericForm. Fractions like "1/2" are not numbers for this check.
func IsNumber(text string) bool {
	form := NumericForm(text)
	if form == "" {
		return false
	}
	_, err := strconv.ParseFloat(form, 64)
	return err == nil
}

// NumericEqual reports whether two strings are the same numeric literal:
// both must be numbers and their numeric forms must be string-equal, so
// "0,5" equals "0.5" but "0.50" does not.
func NumericEqual(a, b string) bool {
	if !IsNumber(a) || !IsNumber(b) {
		return false
	}
	return NumericForm(a) == NumericForm(b)
}
