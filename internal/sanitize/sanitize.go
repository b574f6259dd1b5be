// Package sanitize provides pure cleaning functions for fields extracted
// from AI provider responses. Provider sentinel tokens (e.g. "NO_ENCONTRADO")
// are translated to empty values so they never reach application state.
package sanitize

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is assumed for bare 10-digit local numbers.
const DefaultCountryCode = "+57"

// sentinels are the tokens providers use for fields they could not determine,
// compared after case folding and separator normalization.
var sentinels = map[string]bool{
	"NO ENCONTRADO": true,
	"NOT FOUND":     true,
	"N/A":           true,
}

var labelPrefixRe = regexp.MustCompile(`^\w+:\s*`)

// IsSentinel reports whether s is a provider absence marker, tolerating
// case, underscore/space separators and surrounding whitespace.
func IsSentinel(s string) bool {
	up := strings.ToUpper(strings.TrimSpace(s))
	up = strings.ReplaceAll(up, "_", " ")
	up = strings.Join(strings.Fields(up), " ")
	return sentinels[up]
}

// CleanText trims s, strips quote characters and label prefixes like
// "Nombre: ", and returns "" for empty or sentinel values.
func CleanText(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || IsSentinel(trimmed) {
		return ""
	}

	cleaned := strings.NewReplacer(`"`, "", "'", "").Replace(trimmed)
	cleaned = labelPrefixRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// CleanPhone canonicalizes a phone number to an E.164-like string.
// Everything except digits and a leading "+" is stripped. Numbers without
// a country code are assumed local when they have exactly 10 digits and get
// countryCode prepended; 11+ digit numbers are prefixed with "+" as-is.
// Shorter numbers are returned unprefixed for human review. Sentinel or
// empty input yields "".
func CleanPhone(s, countryCode string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || IsSentinel(trimmed) {
		return ""
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	if cleaned == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "+") {
		return "+" + cleaned
	}

	switch {
	case len(cleaned) == 10:
		return countryCode + cleaned
	case len(cleaned) > 10:
		return "+" + cleaned
	default:
		return cleaned
	}
}

// CleanBoolean interprets a provider's affirmative tokens ("SÍ", "si",
// "yes", "true") as true. Anything else, including empty input, is false.
func CleanBoolean(s string) bool {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "" {
		return false
	}
	return strings.Contains(up, "SÍ") ||
		strings.Contains(up, "SI") ||
		strings.Contains(up, "YES") ||
		strings.Contains(up, "TRUE")
}
