package digitalocean

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoForwardsRequest(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotType   string
		gotBody   []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"droplet": {"id": 42}}`))
	}))
	defer server.Close()

	client := New(&Config{BaseURL: server.URL})

	status, payload, err := client.Do(context.Background(),
		http.MethodPost, "droplets", "do-token", []byte(`{"name": "web-1"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, status)
	assert.JSONEq(t, `{"droplet": {"id": 42}}`, string(payload))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/droplets", gotPath)
	assert.Equal(t, "Bearer do-token", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"name": "web-1"}`, string(gotBody))
}

func TestDoNoContentTypeWithoutBody(t *testing.T) {
	var gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(&Config{BaseURL: server.URL})

	_, _, err := client.Do(context.Background(), http.MethodGet, "sizes", "do-token", nil)
	require.NoError(t, err)
	assert.Empty(t, gotType)
}

func TestDoErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"id": "unauthorized", "message": "Unable to authenticate you"}`))
	}))
	defer server.Close()

	client := New(&Config{BaseURL: server.URL})

	status, payload, err := client.Do(context.Background(), http.MethodGet, "account", "bad-token", nil)
	require.NoError(t, err, "HTTP error statuses are data, not Go errors")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(payload), "unauthorized")
}

func TestDoTransportFailure(t *testing.T) {
	client := New(&Config{BaseURL: "http://127.0.0.1:1"})

	_, _, err := client.Do(context.Background(), http.MethodGet, "account", "tok", nil)
	assert.Error(t, err)
}
