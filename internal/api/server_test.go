package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/scry/internal/report"
	"github.com/panbanda/scry/pkg/models"
	"github.com/panbanda/scry/pkg/review"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := NewServer(":0", review.New(), opts...)
	require.NoError(t, err)
	return s
}

func upload(t *testing.T, field, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze/file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"`+WelcomeMessage+`"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/analyze/file", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	reports := report.NewWriter("reports", report.WithFs(fs))
	s := newTestServer(t, WithReports(reports, true))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "file", "sample.py", "import os\n\ndef f():\n    return 1\n"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sample.py", resp.Filename)
	require.Len(t, resp.Issues, 1)

	got := resp.Issues[0]
	assert.Equal(t, 1, got.Line)
	assert.Equal(t, models.CategoryUnusedImport, got.IssueType)
	assert.Equal(t, "```python\n# Removed unused import\n```", got.Fix)
	assert.Equal(t, "import os\n", got.Preview)

	data, err := afero.ReadFile(fs, filepath.Join("reports", report.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sample.py")

	exists, err := afero.Exists(fs, filepath.Join("reports", report.IssuesDir, "sample_issue_1.md"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAnalyzeFileClean(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "file", "ok.py", "print(1)\n"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"filename":"ok.py","issues":[]}`, rec.Body.String())
}

func TestAnalyzeFileRejects(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"wrong extension", upload(t, "file", "notes.txt", "hello"), http.StatusBadRequest},
		{"wrong field", upload(t, "upload", "a.py", "x = 1"), http.StatusBadRequest},
		{"invalid utf8", upload(t, "file", "a.py", "x = '\xff'"), http.StatusBadRequest},
		{"no body", httptest.NewRequest(http.MethodPost, "/analyze/file", nil), http.StatusBadRequest},
		{"too large", upload(t, "file", "big.py", strings.Repeat("x = 1\n", MaxUploadBytes/6+1024)), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Detail)
		})
	}
}

func TestAnalyzeFileMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze/file", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(newTestServer(t).logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rec.Body.String())
}

func TestPreview(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	assert.Equal(t, "a\nb", preview(lines, 1))
	assert.Equal(t, "b\nc\nd", preview(lines, 3))
	assert.Equal(t, "c\nd", preview(lines, 4))
	assert.Equal(t, "a", preview(lines, 0))
	assert.Empty(t, preview(lines, 9))
	assert.Empty(t, preview(nil, 1))
}
