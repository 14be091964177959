package quotes

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// Normalize trims surrounding whitespace and converts s to Unicode NFC, so
// that visually identical input compares equal during merge.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeInput normalizes text and category and rejects empty values.
func NormalizeInput(text, category string) (string, string, error) {
	text, category = Normalize(text), Normalize(category)
	if text == "" {
		return "", "", &models.ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if category == "" {
		return "", "", &models.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if strings.EqualFold(category, models.CategoryAll) {
		return "", "", &models.ValidationError{Field: "category", Reason: `"all" is reserved`}
	}
	return text, category, nil
}
