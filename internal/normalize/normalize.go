// Package normalize translates repair records between the backend wire
// conventions (snake_case keys, loose status vocabulary) and the client
// conventions (camelCase keys, canonical statuses). All transforms are pure
// and return copies; inputs are never mutated.
package normalize

import (
	"fmt"
	"net/url"
	"strings"

	"tallerit/repair-intake-worker/internal/sanitize"
)

// Canonical repair lifecycle statuses.
const (
	StatusIngresado     = "ingresado"
	StatusDiagnosticada = "diagnosticada"
	StatusParaEntregar  = "para-entregar"
	StatusListos        = "listos"
)

// CanonicalStatuses lists the four valid lifecycle stages in board order.
var CanonicalStatuses = []string{
	StatusIngresado,
	StatusDiagnosticada,
	StatusParaEntregar,
	StatusListos,
}

// statusAliases maps known spelling/punctuation variants to canonical values.
var statusAliases = map[string]string{
	"entregados":    StatusListos,
	"entregado":     StatusListos,
	"entrega":       StatusListos,
	"paraentregar":  StatusParaEntregar,
	"para entregar": StatusParaEntregar,
	"para-entrega":  StatusParaEntregar,
}

// Status resolves a status alias to one of the four canonical values.
// Case variants of canonical values are lowered; unrecognized input is
// returned unchanged, never invented.
func Status(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := statusAliases[lowered]; ok {
		return canonical
	}
	for _, canonical := range CanonicalStatuses {
		if lowered == canonical {
			return canonical
		}
	}
	return s
}

// SnakeToCamel converts a single snake_case key to camelCase.
// Underscores not followed by a lowercase letter are preserved, which keeps
// the transform invertible for keys without digit-adjacent ambiguity.
func SnakeToCamel(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '_' && i+1 < len(key) && key[i+1] >= 'a' && key[i+1] <= 'z' {
			b.WriteByte(key[i+1] - ('a' - 'A'))
			i++
			continue
		}
		b.WriteByte(key[i])
	}
	return b.String()
}

// CamelToSnake converts a single camelCase key to snake_case.
func CamelToSnake(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i := 0; i < len(key); i++ {
		if key[i] >= 'A' && key[i] <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(key[i] + ('a' - 'A'))
			continue
		}
		b.WriteByte(key[i])
	}
	return b.String()
}

// KeysToCamel rewrites every object key in v from snake_case to camelCase,
// depth-first over nested maps and arrays. Primitive values pass through
// untouched.
func KeysToCamel(v any) any {
	return transformKeys(v, SnakeToCamel)
}

// KeysToSnake rewrites every object key in v from camelCase to snake_case,
// depth-first over nested maps and arrays.
func KeysToSnake(v any) any {
	return transformKeys(v, CamelToSnake)
}

func transformKeys(v any, keyFn func(string) string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[keyFn(k)] = transformKeys(inner, keyFn)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = transformKeys(inner, keyFn)
		}
		return out
	default:
		return v
	}
}

// Repair returns a copy of a camelCase repair record with its status
// canonicalized and its image URL trimmed. Both imageUrl and image_url are
// accepted for compatibility with partially converted payloads.
func Repair(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}

	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}

	if status, ok := out["status"].(string); ok {
		out["status"] = Status(status)
	}

	imageURL := out["imageUrl"]
	if imageURL == nil {
		imageURL = out["image_url"]
		delete(out, "image_url")
	}
	switch u := imageURL.(type) {
	case string:
		out["imageUrl"] = strings.TrimSpace(u)
	case nil:
		out["imageUrl"] = ""
	default:
		out["imageUrl"] = imageURL
	}

	return out
}

// WhatsAppNumber produces a dialable international number for an outbound
// contact action. Same cleaning rule as the extraction sanitizer.
func WhatsAppNumber(number, countryCode string) string {
	return sanitize.CleanPhone(number, countryCode)
}

// WhatsAppLink builds a wa.me URL for the given number and message.
// Returns "" when the number cannot be canonicalized.
func WhatsAppLink(number, countryCode, message string) string {
	formatted := WhatsAppNumber(number, countryCode)
	if formatted == "" {
		return ""
	}
	link := "https://wa.me/" + strings.TrimPrefix(formatted, "+")
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

// WhatsAppGreeting is the default first-contact message for a repair order.
func WhatsAppGreeting(ownerName string, repairID any) string {
	return fmt.Sprintf("Hola %s, te contacto desde el taller de reparaciones IT sobre tu equipo (Orden #%v). ¿Cómo estás?", ownerName, repairID)
}
