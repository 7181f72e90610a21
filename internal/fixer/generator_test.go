package fixer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGenerator(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"generated_text":"x = 1"}`))
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL+"/", time.Second)
	out, err := g.Generate(context.Background(), "prompt", Params{MaxNewTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "x = 1", out)
	assert.Equal(t, "prompt", got.Inputs)
	assert.Equal(t, 64, got.Parameters.MaxNewTokens)
}

func TestHTTPGeneratorListResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"generated_text":"first"},{"generated_text":"second"}]`))
	}))
	defer srv.Close()

	out, err := NewHTTPGenerator(srv.URL, 0).Generate(context.Background(), "p", Params{})
	require.NoError(t, err)
	assert.Equal(t, "first", out)
}

func TestHTTPGeneratorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPGenerator(srv.URL, time.Second).Generate(context.Background(), "p", Params{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	_, err = decodeGenerated([]byte(`[]`))
	assert.Error(t, err)
	_, err = decodeGenerated([]byte(`not json`))
	assert.Error(t, err)
}

func TestHTTPGeneratorContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"generated_text":"x"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPGenerator(srv.URL, time.Second).Generate(ctx, "p", Params{})
	assert.Error(t, err)
}
