package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/panbanda/scry/internal/fixer"
	"github.com/panbanda/scry/internal/report"
	"github.com/panbanda/scry/pkg/models"
)

// MaxUploadBytes bounds the size of an uploaded file.
const MaxUploadBytes = 10 << 20

// WelcomeMessage is returned by the root endpoint.
const WelcomeMessage = "Welcome to scry! POST a Python file to /analyze/file."

// IssueResult is one reviewed issue with its suggested fix.
type IssueResult struct {
	Line      int             `json:"line"`
	Issue     string          `json:"issue"`
	Fix       string          `json:"fix"`
	Preview   string          `json:"preview"`
	IssueType models.Category `json:"issue_type"`
}

// AnalyzeResponse is the reply to an uploaded file.
type AnalyzeResponse struct {
	Filename string        `json:"filename"`
	Issues   []IssueResult `json:"issues"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "File too large.")
			return
		}
		WriteError(w, http.StatusBadRequest, "Missing multipart field 'file'.")
		return
	}
	defer func() { _ = file.Close() }()

	name := filepath.Base(header.Filename)
	if !strings.HasSuffix(name, ".py") {
		WriteError(w, http.StatusBadRequest, "Only Python (.py) files are allowed.")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Could not read uploaded file.")
		return
	}
	if !utf8.Valid(content) {
		WriteError(w, http.StatusBadRequest, "File is not valid UTF-8.")
		return
	}

	source := string(content)
	lines := splitLines(source)
	issues := s.engine.Analyze(content)

	resp := AnalyzeResponse{Filename: name, Issues: make([]IssueResult, 0, len(issues))}
	entries := make([]report.Entry, 0, len(issues))
	for _, issue := range issues {
		desc := report.NormalizeDescription(issue.Message)
		fix := s.suggester.Suggest(r.Context(), fixer.Request{
			Source:   source,
			Message:  desc,
			Line:     issue.Line,
			Category: issue.Category,
		})
		resp.Issues = append(resp.Issues, IssueResult{
			Line:      issue.Line,
			Issue:     desc,
			Fix:       fix,
			Preview:   preview(lines, issue.Line),
			IssueType: issue.Category,
		})
		entries = append(entries, report.Entry{Issue: issue, Fix: fix})
	}

	s.saveReport(name, entries)
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) saveReport(name string, entries []report.Entry) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Save(name, entries); err != nil {
		s.logger.Warn("failed to save report", "file", name, "error", err)
	}
	if s.individual {
		if _, err := s.reports.SaveIndividual(name, entries); err != nil {
			s.logger.Warn("failed to save issue reports", "file", name, "error", err)
		}
	}
}

// preview returns the line before, the issue line and the line after.
func preview(lines []string, line int) string {
	start := max(line-2, 0)
	end := min(line+1, len(lines))
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
