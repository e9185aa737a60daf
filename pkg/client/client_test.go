package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientSingleton(t *testing.T) {
	SetClient(New("http://localhost:1", time.Second))
	assert.Same(t, GetClient(), GetClient())
}

func TestAuthTokenHeader(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("User-Agent"), "picfeed-cli/")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	SetClient(New(srv.URL, time.Second))

	SetAuthToken("tok123")
	_, err := GetClient().R().Get("/me")
	require.NoError(t, err)

	ClearAuthToken()
	_, err = GetClient().R().Get("/me")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Bearer tok123", got[0])
	assert.Equal(t, "", got[1])
}

func TestNoRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := New(srv.URL, time.Second).R().Get("/posts")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode())
	assert.Equal(t, 1, calls)
}
