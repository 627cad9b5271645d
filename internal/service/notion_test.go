package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"scrumlog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPageID(t *testing.T) {
	id := "1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d"

	assert.Equal(t, id, ExtractPageID(id))
	assert.Equal(t, id, ExtractPageID("1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d"))
	assert.Equal(t, id, ExtractPageID("https://www.notion.so/workspace/My-Database-"+id))
	assert.Equal(t, id, ExtractPageID("https://notion.so/"+id+"?v=abc123"))
	assert.Equal(t, "", ExtractPageID("    "))
	assert.Equal(t, "not-an-id", ExtractPageID("not-an-id"))
}

func newTestNotion(t *testing.T, handler http.HandlerFunc) *NotionService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := NewNotionService("test-key", strings.Repeat("ab", 16))
	s.baseURL = srv.URL
	return s
}

func TestNotionUploadNotConfigured(t *testing.T) {
	s := NewNotionService("", "")
	_, err := s.Upload(context.Background(), "2025-06-02", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNotionUploadEmptyItemsArchivesOnly(t *testing.T) {
	var queries atomic.Int32
	s := newTestNotion(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/query") {
			queries.Add(1)
			w.Write([]byte(`{"results":[]}`))
			return
		}
		t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
	})

	result, err := s.Upload(context.Background(), "2025-06-02", nil)
	require.NoError(t, err)
	assert.Contains(t, result.URL, "notion.so/")
	assert.Empty(t, result.Warning)
	assert.Equal(t, int32(1), queries.Load())
}

func TestNotionUploadPartialFailure(t *testing.T) {
	var creates atomic.Int32
	s := newTestNotion(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/query"):
			w.Write([]byte(`{"results":[]}`))
		case r.URL.Path == "/v1/pages":
			// First row lands, the rest are rejected.
			if creates.Add(1) > 1 {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"validation_error"}`))
				return
			}
			w.Write([]byte(`{}`))
		}
	})

	items := []model.WorkItem{
		{Content: "A", Tag: model.TagFeature, Status: model.StatusDone},
		{Content: "B", Tag: model.TagBugfix, Status: model.StatusInProgress},
		{Content: "C", Tag: model.TagEtc, Status: model.StatusBlocked},
	}
	result, err := s.Upload(context.Background(), "2025-06-02", items)
	require.NoError(t, err)
	assert.Equal(t, "3개 중 2개 항목 업로드에 실패했습니다", result.Warning)
}

func TestNotionUploadAllFailed(t *testing.T) {
	s := newTestNotion(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/query") {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	items := []model.WorkItem{{Content: "A", Tag: model.TagFeature, Status: model.StatusDone}}
	_, err := s.Upload(context.Background(), "2025-06-02", items)
	assert.ErrorIs(t, err, ErrExternal)
}

func TestNotionUploadArchiveFailureTolerated(t *testing.T) {
	s := newTestNotion(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/query") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	})

	items := []model.WorkItem{{Content: "A", Tag: model.TagFeature, Status: model.StatusDone}}
	result, err := s.Upload(context.Background(), "2025-06-02", items)
	require.NoError(t, err)
	assert.Empty(t, result.Warning)
}
