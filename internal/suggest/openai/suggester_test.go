package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/suggest/openai"
)

func chatResponse(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	require.NoError(t, err)
	return body
}

func newSuggester(t *testing.T, status int, body []byte) *openai.Suggester {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	suggester, err := openai.NewSuggester(openai.Config{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return suggester
}

func TestNewSuggester(t *testing.T) {
	_, err := openai.NewSuggester(openai.Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "OpenAI API key is required")
}

func TestSuggester_Suggest(t *testing.T) {
	t.Run("should return sanitized parameters and reasoning", func(t *testing.T) {
		content := `{
			"understanding": "moody product shot",
			"parameters": {"camera_angle": "Low-Angle", "lighting": "dramatic", "style": "vaporwave"},
			"reasoning": {"lighting": "adds contrast", "camera_angle": "looks heroic"}
		}`
		suggester := newSuggester(t, http.StatusOK, chatResponse(t, content))

		got, err := suggester.Suggest(context.Background(), "a perfume bottle")
		require.NoError(t, err)
		require.Equal(t, "low-angle", got.Parameters.CameraAngle)
		require.Equal(t, "dramatic", got.Parameters.Lighting)
		require.Empty(t, got.Parameters.Style)
		require.Equal(t, "moody product shot; camera_angle: looks heroic; lighting: adds contrast", got.Reasoning)
	})

	t.Run("should fail on malformed content", func(t *testing.T) {
		suggester := newSuggester(t, http.StatusOK, chatResponse(t, "not json"))

		_, err := suggester.Suggest(context.Background(), "a perfume bottle")
		require.Error(t, err)
	})

	t.Run("should fail on api error", func(t *testing.T) {
		suggester := newSuggester(t, http.StatusTooManyRequests,
			[]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))

		_, err := suggester.Suggest(context.Background(), "a perfume bottle")
		require.Error(t, err)
	})

	t.Run("should reject empty prompt", func(t *testing.T) {
		suggester := newSuggester(t, http.StatusOK, nil)

		_, err := suggester.Suggest(context.Background(), "  ")
		require.Error(t, err)
	})
}
