package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &got)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := NewSlackService(srv.URL)
	require.NoError(t, s.Send(context.Background(), "", "📅 데일리 스크럼"))
	assert.Equal(t, "📅 데일리 스크럼", got["text"])
}

func TestSlackSendExplicitWebhookWins(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := NewSlackService("http://127.0.0.1:1/unreachable")
	require.NoError(t, s.Send(context.Background(), srv.URL, "hello"))
	assert.Equal(t, 1, hits)
}

func TestSlackSendNotConfigured(t *testing.T) {
	s := NewSlackService("")
	err := s.Send(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSlackSendSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no_service"))
	}))
	defer srv.Close()

	s := NewSlackService(srv.URL)
	err := s.Send(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrExternal)
	assert.Contains(t, err.Error(), "no_service")
}
