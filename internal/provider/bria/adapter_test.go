package bria_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/provider/bria"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *bria.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	provider, err := bria.NewProvider(bria.Config{
		APIKey:       "secret",
		URL:          srv.URL + "/v2/image/generate",
		Timeout:      5,
		ModelVersion: "FIBO",
	})
	require.NoError(t, err)
	return provider
}

func TestNewProvider(t *testing.T) {
	t.Run("should require api key", func(t *testing.T) {
		_, err := bria.NewProvider(bria.Config{URL: "https://example.test"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "API key is required")
	})

	t.Run("should require url", func(t *testing.T) {
		_, err := bria.NewProvider(bria.Config{APIKey: "secret"})
		require.Error(t, err)
	})
}

func TestProvider_Generate(t *testing.T) {
	req := &domain.ProviderRequest{
		Prompt:     "a ceramic mug",
		Parameters: domain.Parameters{CameraAngle: "low-angle", FOV: "wide"},
	}

	t.Run("should send token and enriched prompt", func(t *testing.T) {
		var (
			gotToken string
			body     map[string]any
		)
		provider := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.Header.Get("api_token")
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, _ = w.Write([]byte(`{"result":{"image_url":"https://bria.test/a.png"}}`))
		})

		resp, err := provider.Generate(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, "https://bria.test/a.png", resp.OutputRef)
		require.Equal(t, "secret", gotToken)
		require.Equal(t, "a ceramic mug, camera angle: low-angle, field of view: wide", body["prompt"])
		require.Equal(t, true, body["sync"])
		require.Equal(t, "FIBO", body["model_version"])
	})

	responses := []struct {
		name string
		body string
		want string
	}{
		{name: "top level image_url", body: `{"image_url":"https://bria.test/b.png"}`, want: "https://bria.test/b.png"},
		{name: "top level url", body: `{"url":"https://bria.test/c.png"}`, want: "https://bria.test/c.png"},
	}
	for _, tt := range responses {
		t.Run("should read "+tt.name, func(t *testing.T) {
			provider := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := provider.Generate(context.Background(), req)
			require.NoError(t, err)
			require.Equal(t, tt.want, resp.OutputRef)
		})
	}

	statuses := []struct {
		status    int
		retryable bool
	}{
		{status: http.StatusTooManyRequests, retryable: true},
		{status: http.StatusBadGateway, retryable: true},
		{status: http.StatusUnauthorized, retryable: false},
		{status: http.StatusUnprocessableEntity, retryable: false},
	}
	for _, tt := range statuses {
		t.Run("should classify status "+http.StatusText(tt.status), func(t *testing.T) {
			provider := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			})

			_, err := provider.Generate(context.Background(), req)
			require.Error(t, err)

			var providerErr *domain.ProviderError
			require.ErrorAs(t, err, &providerErr)
			require.Equal(t, tt.status, providerErr.StatusCode)
			require.Equal(t, tt.retryable, domain.IsRetryable(err))
		})
	}

	t.Run("should fail on missing image url", func(t *testing.T) {
		provider := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := provider.Generate(context.Background(), req)
		require.Error(t, err)
		require.True(t, domain.IsRetryable(err))
	})
}
