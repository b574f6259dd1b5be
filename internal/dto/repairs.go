package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidPriorities lists the accepted repair priorities in ascending urgency.
var ValidPriorities = []string{"low", "normal", "high", "urgent"}

// StatusChangeRequest moves a repair card to another board lane
// @Description Status change request for a repair card
type StatusChangeRequest struct {
	// Target status (canonical value or a known alias)
	Status string `json:"status" binding:"required" example:"para-entregar"`
	// Optional note recorded with the change
	Note string `json:"note" example:"Repuesto instalado"`
}

// WhatsAppLinkResponse carries a ready-to-open wa.me contact link
// @Description Outbound WhatsApp contact link for a repair's owner
type WhatsAppLinkResponse struct {
	// Canonicalized international number
	Number string `json:"number" example:"+573001234567"`
	// wa.me URL with the greeting message
	Link string `json:"link"`
}

// ValidateRepair checks a camelCase repair payload before it is sent to the
// backend. Returns a field→message map, empty when the payload is valid.
func ValidateRepair(record map[string]any) map[string]string {
	errs := make(map[string]string)

	if stringField(record, "ownerName") == "" {
		errs["ownerName"] = "el nombre del propietario es requerido"
	}
	if stringField(record, "problemType") == "" {
		errs["problemType"] = "el tipo de problema es requerido"
	}

	number := stringField(record, "whatsappNumber")
	if number == "" {
		errs["whatsappNumber"] = "el número de WhatsApp es requerido"
	} else if digitCount(number) < 10 {
		errs["whatsappNumber"] = "número de WhatsApp inválido"
	}

	dueDate := stringField(record, "dueDate")
	if dueDate == "" {
		errs["dueDate"] = "la fecha de entrega es requerida"
	} else if parsed, err := parseDueDate(dueDate); err != nil {
		errs["dueDate"] = "la fecha de entrega no es válida"
	} else if !parsed.After(time.Now()) {
		errs["dueDate"] = "la fecha de entrega debe ser futura"
	}

	if cost, ok := numberField(record, "estimatedCost"); ok && cost < 0 {
		errs["estimatedCost"] = "el costo estimado no puede ser negativo"
	}

	if priority := stringField(record, "priority"); priority != "" && !contains(ValidPriorities, priority) {
		errs["priority"] = fmt.Sprintf("prioridad inválida: %s", priority)
	}

	return errs
}

func stringField(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return strings.TrimSpace(s)
}

func numberField(record map[string]any, key string) (float64, bool) {
	switch v := record[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

func parseDueDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
