package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/provider/openai"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(t *testing.T, baseURL string) *openai.Provider {
	t.Helper()
	provider, err := openai.NewProvider(openai.Config{
		APIKey:  "test-key",
		BaseURL: baseURL + "/",
		Timeout: 5,
	})
	require.NoError(t, err)
	return provider
}

func TestNewProvider(t *testing.T) {
	t.Run("should create provider with defaults", func(t *testing.T) {
		provider, err := openai.NewProvider(openai.Config{APIKey: "test-key"})
		require.NoError(t, err)
		require.Equal(t, "openai", provider.Name())
	})

	t.Run("should require api key", func(t *testing.T) {
		provider, err := openai.NewProvider(openai.Config{})
		require.Error(t, err)
		require.Nil(t, provider)
		require.Contains(t, err.Error(), "OpenAI API key is required")
	})

	t.Run("should reject unknown model and size", func(t *testing.T) {
		_, err := openai.NewProvider(openai.Config{APIKey: "k", ImageModel: "sketchpad"})
		require.Error(t, err)

		_, err = openai.NewProvider(openai.Config{APIKey: "k", ImageSize: "3x3"})
		require.Error(t, err)
	})
}

func TestProvider_Generate(t *testing.T) {
	t.Run("should send enriched prompt and return image url", func(t *testing.T) {
		var (
			body    map[string]any
			gotPath string
			gotAuth string
		)
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&body)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://img.test/1.png","revised_prompt":"better"}]}`))
		})

		provider := newProvider(t, srv.URL)
		resp, err := provider.Generate(context.Background(), &domain.ProviderRequest{
			Prompt:     "a red bicycle",
			Parameters: domain.Parameters{Lighting: "studio", Style: "cinematic"},
		})
		require.NoError(t, err)
		require.Equal(t, "https://img.test/1.png", resp.OutputRef)
		require.Equal(t, "better", resp.RevisedPrompt)

		require.Equal(t, "/images/generations", gotPath)
		require.Equal(t, "Bearer test-key", gotAuth)

		require.Equal(t, "a red bicycle, lighting: studio, style: cinematic", body["prompt"])
		require.Equal(t, "dall-e-3", body["model"])
		require.Equal(t, "1024x1024", body["size"])
		require.Equal(t, "url", body["response_format"])
	})

	t.Run("should mark server errors retryable", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
		})

		_, err := newProvider(t, srv.URL).Generate(context.Background(), &domain.ProviderRequest{Prompt: "x"})
		require.Error(t, err)

		var providerErr *domain.ProviderError
		require.ErrorAs(t, err, &providerErr)
		require.Equal(t, http.StatusServiceUnavailable, providerErr.StatusCode)
		require.True(t, domain.IsRetryable(err))
	})

	t.Run("should mark bad requests terminal", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"content policy","type":"invalid_request_error"}}`))
		})

		_, err := newProvider(t, srv.URL).Generate(context.Background(), &domain.ProviderRequest{Prompt: "x"})
		require.Error(t, err)
		require.False(t, domain.IsRetryable(err))
	})

	t.Run("should fail when no image is returned", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"created":1,"data":[]}`))
		})

		_, err := newProvider(t, srv.URL).Generate(context.Background(), &domain.ProviderRequest{Prompt: "x"})
		require.Error(t, err)
		require.True(t, domain.IsRetryable(err))
	})

	t.Run("should reject nil request", func(t *testing.T) {
		provider, err := openai.NewProvider(openai.Config{APIKey: "test-key"})
		require.NoError(t, err)

		resp, err := provider.Generate(context.Background(), nil)
		require.Error(t, err)
		require.Nil(t, resp)
		require.Contains(t, err.Error(), "request cannot be nil")
	})
}
