package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "canonical passes through",
			input:    "ingresado",
			expected: StatusIngresado,
		},
		{
			name:     "canonical uppercase is lowered",
			input:    "INGRESADO",
			expected: StatusIngresado,
		},
		{
			name:     "mixed case canonical",
			input:    "Para-Entregar",
			expected: StatusParaEntregar,
		},
		{
			name:     "entregados alias",
			input:    "entregados",
			expected: StatusListos,
		},
		{
			name:     "entregado alias",
			input:    "entregado",
			expected: StatusListos,
		},
		{
			name:     "entrega alias",
			input:    "entrega",
			expected: StatusListos,
		},
		{
			name:     "paraentregar alias",
			input:    "paraentregar",
			expected: StatusParaEntregar,
		},
		{
			name:     "para entregar with space",
			input:    "para entregar",
			expected: StatusParaEntregar,
		},
		{
			name:     "para-entrega alias",
			input:    "para-entrega",
			expected: StatusParaEntregar,
		},
		{
			name:     "alias with surrounding whitespace",
			input:    "  Entregados  ",
			expected: StatusListos,
		},
		{
			name:     "unknown value returned unchanged",
			input:    "en-revision",
			expected: "en-revision",
		},
		{
			name:     "empty returned unchanged",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Status(tt.input))
		})
	}
}

func TestSnakeToCamel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "two words",
			input:    "owner_name",
			expected: "ownerName",
		},
		{
			name:     "three words",
			input:    "whatsapp_number_raw",
			expected: "whatsappNumberRaw",
		},
		{
			name:     "single word untouched",
			input:    "status",
			expected: "status",
		},
		{
			name:     "trailing underscore preserved",
			input:    "legacy_",
			expected: "legacy_",
		},
		{
			name:     "underscore before digit preserved",
			input:    "field_2",
			expected: "field_2",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SnakeToCamel(tt.input))
		})
	}
}

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "two words",
			input:    "ownerName",
			expected: "owner_name",
		},
		{
			name:     "three words",
			input:    "whatsappNumberRaw",
			expected: "whatsapp_number_raw",
		},
		{
			name:     "single word untouched",
			input:    "status",
			expected: "status",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CamelToSnake(tt.input))
		})
	}
}

func TestKeyCasingRoundTrip(t *testing.T) {
	keys := []string{"owner_name", "whatsapp_number", "due_date", "problem_type", "estimated_cost", "status"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, key, CamelToSnake(SnakeToCamel(key)))
		})
	}
}

func TestKeysToCamel(t *testing.T) {
	input := map[string]any{
		"owner_name":      "Juan Pérez",
		"whatsapp_number": "3001234567",
		"status_history": []any{
			map[string]any{
				"changed_at": "2026-08-01T10:00:00",
				"new_status": "diagnosticada",
			},
		},
		"nested": map[string]any{
			"inner_key": float64(1),
		},
	}

	result, ok := KeysToCamel(input).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Juan Pérez", result["ownerName"])
	assert.Equal(t, "3001234567", result["whatsappNumber"])

	history, ok := result["statusHistory"].([]any)
	assert.True(t, ok)
	entry, ok := history[0].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "2026-08-01T10:00:00", entry["changedAt"])
	assert.Equal(t, "diagnosticada", entry["newStatus"])

	nested, ok := result["nested"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, float64(1), nested["innerKey"])

	// input is not mutated
	assert.Contains(t, input, "owner_name")
	assert.NotContains(t, input, "ownerName")
}

func TestKeysToSnake(t *testing.T) {
	input := map[string]any{
		"ownerName": "Juan Pérez",
		"statusHistory": []any{
			map[string]any{"changedAt": "2026-08-01T10:00:00"},
		},
	}

	result, ok := KeysToSnake(input).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Juan Pérez", result["owner_name"])

	history, ok := result["status_history"].([]any)
	assert.True(t, ok)
	entry, ok := history[0].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, entry, "changed_at")
}

func TestKeysToCamelPrimitivesPassThrough(t *testing.T) {
	assert.Equal(t, "hola", KeysToCamel("hola"))
	assert.Equal(t, float64(42), KeysToCamel(float64(42)))
	assert.Nil(t, KeysToCamel(nil))
}

func TestRepair(t *testing.T) {
	input := map[string]any{
		"id":        float64(7),
		"ownerName": "Juan Pérez",
		"status":    "entregados",
		"image_url": "  https://example.com/photo.jpg  ",
	}

	result := Repair(input)

	assert.Equal(t, StatusListos, result["status"])
	assert.Equal(t, "https://example.com/photo.jpg", result["imageUrl"])
	assert.NotContains(t, result, "image_url")

	// input record is untouched
	assert.Equal(t, "entregados", input["status"])
	assert.Contains(t, input, "image_url")
}

func TestRepairWithoutImage(t *testing.T) {
	result := Repair(map[string]any{"status": "ingresado"})
	assert.Equal(t, StatusIngresado, result["status"])
	assert.Equal(t, "", result["imageUrl"])
}

func TestRepairNil(t *testing.T) {
	assert.Nil(t, Repair(nil))
}

func TestWhatsAppNumber(t *testing.T) {
	assert.Equal(t, "+573001234567", WhatsAppNumber("3001234567", "+57"))
	assert.Equal(t, "+14155552671", WhatsAppNumber("+1 415 555 2671", "+57"))
	assert.Equal(t, "", WhatsAppNumber("NO_ENCONTRADO", "+57"))
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("3001234567", "+57", "Hola Juan")
	assert.Equal(t, "https://wa.me/573001234567?text=Hola+Juan", link)

	assert.Equal(t, "https://wa.me/573001234567", WhatsAppLink("3001234567", "+57", ""))
	assert.Equal(t, "", WhatsAppLink("", "+57", "Hola"))
}

func TestWhatsAppGreeting(t *testing.T) {
	greeting := WhatsAppGreeting("Juan", 7)
	assert.Contains(t, greeting, "Juan")
	assert.Contains(t, greeting, "Orden #7")
}
