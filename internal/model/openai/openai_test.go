package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tallerit/repair-intake-worker/internal/model/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAdapter(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, NewAdapter(Config{APIKey: "sk-test"}).IsConfigured())
	assert.False(t, NewAdapter(Config{}).IsConfigured())
	assert.False(t, NewAdapter(Config{APIKey: PlaceholderAPIKey}).IsConfigured())
}

func TestUnconfiguredAdapterRefusesCalls(t *testing.T) {
	a := NewAdapter(Config{})

	_, err := a.ExtractEquipmentInfo(context.Background(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, provider.ErrNotConfigured, provider.KindOf(err))

	_, err = a.TranscribeAudio(context.Background(), []byte("audio"), "audio/mpeg")
	assert.Equal(t, provider.ErrNotConfigured, provider.KindOf(err))

	_, err = a.AnalyzeText(context.Background(), "texto")
	assert.Equal(t, provider.ErrNotConfigured, provider.KindOf(err))

	_, err = a.TestConnection(context.Background())
	assert.Equal(t, provider.ErrNotConfigured, provider.KindOf(err))
}

func TestExtractEquipmentInfoRequest(t *testing.T) {
	var received chatRequest
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		chatReply(t, w, `{"nombreCliente":"Juan"}`)
	})

	reply, err := a.ExtractEquipmentInfo(context.Background(), []byte("fake-image"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, `{"nombreCliente":"Juan"}`, reply)
	assert.Equal(t, DefaultModel, received.Model)

	// the image travels inline as a base64 data URL
	raw, err := json.Marshal(received.Messages[0].Content)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "data:image/png;base64,")
	assert.Contains(t, string(raw), "image_url")
}

func TestTranscribeAudioMultipart(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, DefaultTranscriptionModel, r.FormValue("model"))
		assert.Equal(t, "es", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.True(t, strings.HasSuffix(header.Filename, ".mp3"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"la laptop no enciende"}`))
	})

	text, err := a.TranscribeAudio(context.Background(), []byte("fake-audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "la laptop no enciende", text)
}

func TestTranscribeAudioEmptyResult(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":"  "}`))
	})

	_, err := a.TranscribeAudio(context.Background(), []byte("fake-audio"), "audio/mpeg")
	require.Error(t, err)
	assert.Equal(t, provider.ErrTransient, provider.KindOf(err))
}

func TestStatusCodeClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected provider.ErrorKind
	}{
		{
			name:     "401 is auth",
			status:   http.StatusUnauthorized,
			expected: provider.ErrAuth,
		},
		{
			name:     "403 is auth",
			status:   http.StatusForbidden,
			expected: provider.ErrAuth,
		},
		{
			name:     "402 is quota",
			status:   http.StatusPaymentRequired,
			expected: provider.ErrQuota,
		},
		{
			name:     "429 is quota",
			status:   http.StatusTooManyRequests,
			expected: provider.ErrQuota,
		},
		{
			name:     "500 is transient",
			status:   http.StatusInternalServerError,
			expected: provider.ErrTransient,
		},
		{
			name:     "503 is transient",
			status:   http.StatusServiceUnavailable,
			expected: provider.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			})

			_, err := a.AnalyzeText(context.Background(), "texto")
			require.Error(t, err)
			assert.Equal(t, tt.expected, provider.KindOf(err))
		})
	}
}

func TestNetworkErrorIsTransient(t *testing.T) {
	a := NewAdapter(Config{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})

	_, err := a.TestConnection(context.Background())
	require.Error(t, err)
	assert.Equal(t, provider.ErrTransient, provider.KindOf(err))
}

func TestEmptyChoicesIsTransient(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := a.TestConnection(context.Background())
	require.Error(t, err)
	assert.Equal(t, provider.ErrTransient, provider.KindOf(err))
}

func TestBodyErrorFieldIsClassified(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		// 200 with an error body still carries a quota failure
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","code":"rate_limit_exceeded"}}`))
	})

	_, err := a.TestConnection(context.Background())
	require.Error(t, err)
	assert.Equal(t, provider.ErrQuota, provider.KindOf(err))
}

func TestExtensionForMime(t *testing.T) {
	assert.Equal(t, ".mp3", extensionForMime("audio/mpeg"))
	assert.Equal(t, ".wav", extensionForMime("audio/wav"))
	assert.Equal(t, ".ogg", extensionForMime("audio/ogg"))
	assert.Equal(t, ".m4a", extensionForMime("audio/mp4"))
	assert.Equal(t, ".webm", extensionForMime("audio/webm"))
	assert.Equal(t, ".webm", extensionForMime(""))
}
