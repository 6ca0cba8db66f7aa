package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chinookvaluation/dashboard/api/internal/config"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSender(t *testing.T, handler http.Handler) *Sender {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.EmailConfig{
		BaseURL:     server.URL,
		APIKey:      "re_test_key",
		FromAddress: "jobs@chinookvaluation.ca",
	}
	return New(cfg, logger.New("test"))
}

func TestSendSigningLink(t *testing.T) {
	var payload map[string]interface{}
	sender := testSender(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"id":"email-1"}`))
	}))

	err := sender.SendSigningLink(context.Background(), "ada@x.com", "Ada Nguyen", "https://docuseal.com/s/abc123")
	require.NoError(t, err)

	assert.Equal(t, "jobs@chinookvaluation.ca", payload["from"])
	assert.Equal(t, []interface{}{"ada@x.com"}, payload["to"])
	assert.Contains(t, payload["text"], "https://docuseal.com/s/abc123")
	assert.Contains(t, payload["text"], "Ada Nguyen")
}

func TestSendSigningLink_ProviderError(t *testing.T) {
	sender := testSender(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))

	err := sender.SendSigningLink(context.Background(), "ada@x.com", "Ada", "https://docuseal.com/s/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
