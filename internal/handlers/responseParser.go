package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode"

	"tallerit/repair-intake-worker/internal/model/provider"
)

// fallbackPhoneRe matches phone numbers with optional country code and
// tolerant 3+3+4 digit grouping (separators: space, dot, dash, parens).
var fallbackPhoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// chargerKeywords mark charger presence in free text.
var chargerKeywords = []string{"cargador", "cable", "adaptador"}

// deviceTypeKeywords are scanned in order; the first match wins.
var deviceTypeKeywords = []string{"laptop", "computadora", "pc", "tablet", "macbook", "notebook"}

// ParseExtraction turns a provider's free-form reply into the five-key raw
// extraction. It never fails: when no parseable JSON object is present the
// heuristic fallback produces a best-effort (possibly empty) record.
func ParseExtraction(response string) provider.RawExtraction {
	cleaned := stripMarkdownFences(response)

	jsonStr, ok := firstBalancedObject(cleaned)
	if !ok {
		log.Printf("[ResponseParser] No JSON object in reply, using heuristic fallback")
		return heuristicExtraction(response)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		log.Printf("[ResponseParser] JSON decode failed (%v), using heuristic fallback", err)
		return heuristicExtraction(response)
	}

	return provider.RawExtraction{
		NombreCliente:  stringValue(fields, "nombreCliente"),
		WhatsappNumber: stringValue(fields, "whatsappNumber"),
		TieneCargador:  stringValue(fields, "tieneCargador"),
		TipoEquipo:     stringValue(fields, "tipoEquipo"),
		MarcaModelo:    stringValue(fields, "marcaModelo"),
	}
}

// stripMarkdownFences removes ```json blocks some models wrap replies in
// despite instructions.
func stripMarkdownFences(response string) string {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstBalancedObject returns the first balanced {...} substring, honoring
// JSON string literals and escapes so braces inside values don't count.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// heuristicExtraction scans raw reply text for phone numbers, charger
// keywords and device types. Total: always yields a record, never an error.
func heuristicExtraction(text string) provider.RawExtraction {
	var raw provider.RawExtraction
	lower := strings.ToLower(text)

	if phone := fallbackPhoneRe.FindString(text); phone != "" {
		raw.WhatsappNumber = phone
	}

	for _, keyword := range chargerKeywords {
		if strings.Contains(lower, keyword) {
			raw.TieneCargador = "SÍ"
			break
		}
	}

	for _, device := range deviceTypeKeywords {
		if strings.Contains(lower, device) {
			raw.TipoEquipo = capitalize(device)
			break
		}
	}

	return raw
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// stringValue coerces a decoded JSON field to string. Models occasionally
// answer the charger flag as a bare boolean; %v keeps that usable.
func stringValue(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
