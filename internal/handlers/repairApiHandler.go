package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tallerit/repair-intake-worker/internal/normalize"
)

const (
	// DefaultRepairAPITimeout covers large inline images in responses.
	DefaultRepairAPITimeout = 60 * time.Second

	apiPrefix = "/api"
)

// RepairAPIConfig holds configuration for the RepairAPIHandler
type RepairAPIConfig struct {
	// BaseURL of the repairs backend (required)
	BaseURL string
	// Timeout for backend requests (defaults to 60s)
	Timeout time.Duration
	// CountryCode used when formatting outbound contact numbers
	CountryCode string
	// HTTPClient allows a custom HTTP client (optional)
	HTTPClient *http.Client
}

// RepairAPIHandler talks to the repairs backend. The backend speaks
// snake_case; every outbound payload passes through the key-casing
// normalizer and every inbound record comes back camelCased with its status
// canonicalized. Records travel as generic maps so unknown backend fields
// survive the round trip.
type RepairAPIHandler struct {
	baseURL     string
	httpClient  *http.Client
	countryCode string
}

// ListParams filters a repairs listing.
type ListParams struct {
	Skip     int
	Limit    int
	Status   string
	Priority string
	Search   string
}

// NewRepairAPIHandler creates a new RepairAPIHandler instance
func NewRepairAPIHandler(config RepairAPIConfig) (*RepairAPIHandler, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("repairs API base URL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultRepairAPITimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	log.Printf("[RepairAPIHandler] Initialized with base URL: %s", config.BaseURL)

	return &RepairAPIHandler{
		baseURL:     config.BaseURL,
		httpClient:  httpClient,
		countryCode: config.CountryCode,
	}, nil
}

// ListRepairs retrieves repair cards with optional filters.
func (h *RepairAPIHandler) ListRepairs(ctx context.Context, params ListParams) ([]map[string]any, error) {
	query := url.Values{}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		query.Set("status", normalize.Status(params.Status))
	}
	if params.Priority != "" {
		query.Set("priority", params.Priority)
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}

	payload, err := h.doJSON(ctx, http.MethodGet, "/repairs", query, nil)
	if err != nil {
		return nil, err
	}
	return decodeRepairList(payload)
}

// SearchRepairs runs the backend's fast search endpoint.
func (h *RepairAPIHandler) SearchRepairs(ctx context.Context, q string, limit int) ([]map[string]any, error) {
	query := url.Values{"q": []string{q}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	payload, err := h.doJSON(ctx, http.MethodGet, "/repairs/search", query, nil)
	if err != nil {
		return nil, err
	}
	return decodeRepairList(payload)
}

// GetRepair retrieves a single repair card by id.
func (h *RepairAPIHandler) GetRepair(ctx context.Context, id int) (map[string]any, error) {
	payload, err := h.doJSON(ctx, http.MethodGet, fmt.Sprintf("/repairs/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRepair(payload)
}

// GetRepairsByStatus retrieves all cards in one board lane.
func (h *RepairAPIHandler) GetRepairsByStatus(ctx context.Context, status string) ([]map[string]any, error) {
	canonical := normalize.Status(status)
	payload, err := h.doJSON(ctx, http.MethodGet, "/repairs/status/"+url.PathEscape(canonical), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRepairList(payload)
}

// CreateRepair creates a repair card from a camelCase record.
func (h *RepairAPIHandler) CreateRepair(ctx context.Context, record map[string]any) (map[string]any, error) {
	payload, err := h.doJSON(ctx, http.MethodPost, "/repairs", nil, record)
	if err != nil {
		return nil, err
	}
	return decodeRepair(payload)
}

// UpdateRepair replaces a repair card's editable fields.
func (h *RepairAPIHandler) UpdateRepair(ctx context.Context, id int, record map[string]any) (map[string]any, error) {
	payload, err := h.doJSON(ctx, http.MethodPut, fmt.Sprintf("/repairs/%d", id), nil, record)
	if err != nil {
		return nil, err
	}
	return decodeRepair(payload)
}

// ChangeStatus moves a repair card to another lane. Aliases are resolved
// before the request; a status the normalizer cannot canonicalize is
// rejected here rather than bounced by the backend.
func (h *RepairAPIHandler) ChangeStatus(ctx context.Context, id int, status, note string) (map[string]any, error) {
	canonical := normalize.Status(status)
	if !isCanonicalStatus(canonical) {
		return nil, fmt.Errorf("estado inválido: %s", status)
	}

	body := map[string]any{"status": canonical}
	if note != "" {
		body["note"] = note
	}

	payload, err := h.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/repairs/%d/status", id), nil, body)
	if err != nil {
		return nil, err
	}
	return decodeRepair(payload)
}

// DeleteRepair removes a repair card.
func (h *RepairAPIHandler) DeleteRepair(ctx context.Context, id int) error {
	_, err := h.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/repairs/%d", id), nil, nil)
	return err
}

// GetStats retrieves board statistics.
func (h *RepairAPIHandler) GetStats(ctx context.Context) (map[string]any, error) {
	payload, err := h.doJSON(ctx, http.MethodGet, "/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	stats, ok := normalize.KeysToCamel(payload).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected stats payload type %T", payload)
	}
	return stats, nil
}

// GetOverdueRepairs retrieves cards past their due date.
func (h *RepairAPIHandler) GetOverdueRepairs(ctx context.Context) ([]map[string]any, error) {
	payload, err := h.doJSON(ctx, http.MethodGet, "/repairs/overdue", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRepairList(payload)
}

// GetDueSoonRepairs retrieves cards due within the backend's soon-window.
func (h *RepairAPIHandler) GetDueSoonRepairs(ctx context.Context) ([]map[string]any, error) {
	payload, err := h.doJSON(ctx, http.MethodGet, "/repairs/due-soon", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeRepairList(payload)
}

// HealthCheck probes the backend's health endpoint.
func (h *RepairAPIHandler) HealthCheck(ctx context.Context) (map[string]any, error) {
	payload, err := h.doJSON(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return nil, err
	}
	health, _ := payload.(map[string]any)
	return health, nil
}

// WhatsAppLink builds the outbound contact link for a repair card.
func (h *RepairAPIHandler) WhatsAppLink(repair map[string]any) (number, link string) {
	rawNumber, _ := repair["whatsappNumber"].(string)
	ownerName, _ := repair["ownerName"].(string)
	number = normalize.WhatsAppNumber(rawNumber, h.countryCode)
	if number == "" {
		return "", ""
	}
	message := normalize.WhatsAppGreeting(ownerName, repair["id"])
	return number, normalize.WhatsAppLink(rawNumber, h.countryCode, message)
}

// doJSON performs one backend round trip. Outbound bodies are snake_cased;
// the decoded response payload is returned as-is for the caller to shape.
func (h *RepairAPIHandler) doJSON(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	requestURL := h.baseURL + apiPrefix + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(normalize.KeysToSnake(body))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error de red, no se puede conectar al servidor: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backendError(resp.StatusCode, respBytes)
	}

	if len(respBytes) == 0 {
		return nil, nil
	}

	var payload any
	if err := json.Unmarshal(respBytes, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}
	return payload, nil
}

// backendError extracts FastAPI-style {"detail": ...} messages.
func backendError(status int, body []byte) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return fmt.Errorf("backend error (status %d): %s", status, detail.Detail)
	}
	return fmt.Errorf("backend error (status %d): %s", status, string(body))
}

func decodeRepair(payload any) (map[string]any, error) {
	record, ok := normalize.KeysToCamel(payload).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected repair payload type %T", payload)
	}
	return normalize.Repair(record), nil
}

func decodeRepairList(payload any) ([]map[string]any, error) {
	items, ok := payload.([]any)
	if !ok {
		// single-object replies normalize to a one-element list
		record, err := decodeRepair(payload)
		if err != nil {
			return nil, fmt.Errorf("unexpected repairs payload type %T", payload)
		}
		return []map[string]any{record}, nil
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		record, err := decodeRepair(item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func isCanonicalStatus(status string) bool {
	for _, canonical := range normalize.CanonicalStatuses {
		if status == canonical {
			return true
		}
	}
	return false
}
