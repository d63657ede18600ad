package imagegen

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDataURI(t *testing.T) {
	r := NewResolver(time.Second)

	got, err := r.Resolve(context.Background(), "data:image/png;base64,aW1hZ2U=")
	require.NoError(t, err)
	assert.Equal(t, "aW1hZ2U=", got)

	_, err = r.Resolve(context.Background(), "data:image/png;base64")
	assert.Error(t, err)
}

func TestResolveFetchesAndEncodes(t *testing.T) {
	payload := []byte("fake-image-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	r := NewResolver(time.Second)
	got, err := r.Resolve(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), got)
}

func TestResolveRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewResolver(time.Second)
	_, err := r.Resolve(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestResolveRejectsEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	defer server.Close()

	r := NewResolver(time.Second)
	_, err := r.Resolve(context.Background(), server.URL)
	assert.Error(t, err)
}
