package handlers

import (
	"context"
	"testing"
	"time"

	"tallerit/repair-intake-worker/internal/dto"
	"tallerit/repair-intake-worker/internal/model/pacer"
	"tallerit/repair-intake-worker/internal/model/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a canned provider.Provider for pipeline tests.
type stubProvider struct {
	name       provider.Backend
	configured bool

	extractReply    string
	extractErr      error
	extractCalls    int
	transcribeReply string
	transcribeErr   error
	analyzeReply    string
	testReply       string
	testErr         error
}

func (s *stubProvider) Name() provider.Backend { return s.name }
func (s *stubProvider) IsConfigured() bool     { return s.configured }

func (s *stubProvider) ExtractEquipmentInfo(_ context.Context, _ []byte, _ string) (string, error) {
	s.extractCalls++
	return s.extractReply, s.extractErr
}

func (s *stubProvider) TranscribeAudio(_ context.Context, _ []byte, _ string) (string, error) {
	return s.transcribeReply, s.transcribeErr
}

func (s *stubProvider) AnalyzeText(_ context.Context, _ string) (string, error) {
	return s.analyzeReply, nil
}

func (s *stubProvider) TestConnection(_ context.Context) (string, error) {
	return s.testReply, s.testErr
}

func newTestHandler(providers ...provider.Provider) *ExtractorHandler {
	h := NewExtractorHandler(ExtractorConfig{}, pacer.New(nil), providers...)
	// no real waiting in tests
	for _, policy := range h.retries {
		policy.sleep = func(_ context.Context, _ time.Duration) error { return nil }
	}
	return h
}

func TestExtractEquipmentInfoFullPipeline(t *testing.T) {
	stub := &stubProvider{
		name:       provider.BackendGemini,
		configured: true,
		extractReply: `{"nombreCliente":"Nombre: Juan Pérez","whatsappNumber":"3001234567",` +
			`"tieneCargador":"SÍ","tipoEquipo":"Laptop","marcaModelo":"NO_ENCONTRADO"}`,
	}
	h := newTestHandler(stub)

	info, err := h.ExtractEquipmentInfo(context.Background(), provider.BackendGemini, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, &dto.ExtractedEquipmentInfo{
		OwnerName:     "Juan Pérez",
		ContactNumber: "+573001234567",
		HasCharger:    true,
		DeviceType:    "Laptop",
		BrandModel:    "",
	}, info)
}

func TestExtractEquipmentInfoRefusalYieldsEmptyRecord(t *testing.T) {
	stub := &stubProvider{
		name:         provider.BackendGemini,
		configured:   true,
		extractReply: "I cannot analyze this image.",
	}
	h := newTestHandler(stub)

	info, err := h.ExtractEquipmentInfo(context.Background(), provider.BackendGemini, []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, info.IsEmpty())
}

func TestExtractEquipmentInfoUnconfiguredProvider(t *testing.T) {
	stub := &stubProvider{name: provider.BackendGemini, configured: false}
	h := newTestHandler(stub)

	_, err := h.ExtractEquipmentInfo(context.Background(), provider.BackendGemini, []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, provider.ErrNotConfigured, provider.KindOf(err))
	assert.Zero(t, stub.extractCalls)
}

func TestExtractEquipmentInfoUnknownBackend(t *testing.T) {
	h := newTestHandler(&stubProvider{name: provider.BackendGemini, configured: true})

	_, err := h.ExtractEquipmentInfo(context.Background(), provider.BackendOpenAI, []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, provider.ErrNotConfigured, provider.KindOf(err))
}

func TestExtractEquipmentInfoQuotaRetriesThenFails(t *testing.T) {
	stub := &stubProvider{
		name:       provider.BackendGemini,
		configured: true,
		extractErr: provider.NewError(provider.BackendGemini, provider.ErrQuota, "rate limit"),
	}
	h := newTestHandler(stub)

	_, err := h.ExtractEquipmentInfo(context.Background(), provider.BackendGemini, []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, provider.ErrQuota, provider.KindOf(err))
	assert.Equal(t, MaxQuotaAttempts, stub.extractCalls)
}

func TestTranscribeAudio(t *testing.T) {
	stub := &stubProvider{
		name:            provider.BackendOpenAI,
		configured:      true,
		transcribeReply: "la laptop no enciende",
	}
	h := newTestHandler(stub)

	text, err := h.TranscribeAudio(context.Background(), provider.BackendOpenAI, []byte("audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "la laptop no enciende", text)
}

func TestAnalyzeText(t *testing.T) {
	stub := &stubProvider{
		name:         provider.BackendGemini,
		configured:   true,
		analyzeReply: "Posible falla de fuente de poder.",
	}
	h := newTestHandler(stub)

	analysis, err := h.AnalyzeText(context.Background(), provider.BackendGemini, "no enciende")
	require.NoError(t, err)
	assert.Equal(t, "Posible falla de fuente de poder.", analysis)
}

func TestTestConnection(t *testing.T) {
	stub := &stubProvider{
		name:       provider.BackendGemini,
		configured: true,
		testReply:  "OK",
	}
	h := newTestHandler(stub)

	reply, err := h.TestConnection(context.Background(), provider.BackendGemini)
	require.NoError(t, err)
	assert.Equal(t, "OK", reply)
}

func TestProvidersStatusOrder(t *testing.T) {
	h := newTestHandler(
		&stubProvider{name: provider.BackendOpenAI, configured: false},
		&stubProvider{name: provider.BackendGemini, configured: true},
	)

	statuses := h.Providers()
	require.Len(t, statuses, 2)
	assert.Equal(t, dto.ProviderStatus{Name: "gemini", Configured: true}, statuses[0])
	assert.Equal(t, dto.ProviderStatus{Name: "openai", Configured: false}, statuses[1])
}

func TestCustomCountryCode(t *testing.T) {
	stub := &stubProvider{
		name:         provider.BackendGemini,
		configured:   true,
		extractReply: `{"nombreCliente":"","whatsappNumber":"3001234567","tieneCargador":"NO","tipoEquipo":"","marcaModelo":""}`,
	}
	h := NewExtractorHandler(ExtractorConfig{DefaultCountryCode: "+52"}, pacer.New(nil), stub)

	info, err := h.ExtractEquipmentInfo(context.Background(), provider.BackendGemini, []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "+523001234567", info.ContactNumber)
}
