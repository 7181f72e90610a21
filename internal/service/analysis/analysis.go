// Package analysis builds review engines, fix suggesters and report
// writers from configuration and runs reviews over paths or source.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/panbanda/scry/internal/cache"
	"github.com/panbanda/scry/internal/fixer"
	"github.com/panbanda/scry/internal/output"
	"github.com/panbanda/scry/internal/report"
	"github.com/panbanda/scry/internal/scanner"
	"github.com/panbanda/scry/pkg/config"
	"github.com/panbanda/scry/pkg/models"
	"github.com/panbanda/scry/pkg/review"
)

// ErrNoFiles is returned when a scan finds nothing to review.
var ErrNoFiles = errors.New("no Python files found")

// Service orchestrates review operations.
type Service struct {
	config *config.Config
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config { return s.config }

// ReviewOptions tunes a single review run.
type ReviewOptions struct {
	Threshold  int // overrides the configured threshold when positive
	NoCache    bool
	OnProgress func()
}

// Result is the outcome of a review run.
type Result struct {
	Files   []models.FileReview
	Summary models.ReviewSummary
}

// Render returns the result as an output.Renderable.
func (r *Result) Render() *output.Review {
	return output.NewReview(r.Files, r.Summary)
}

// Engine builds a review engine from the configuration.
func (s *Service) Engine(opts ReviewOptions) *review.Engine {
	threshold := s.config.Thresholds.CyclomaticComplexity
	if opts.Threshold > 0 {
		threshold = opts.Threshold
	}

	engineOpts := []review.Option{
		review.WithComplexityThreshold(threshold),
		review.WithDisabled(s.config.DisabledAnalyzers()...),
		review.WithMaxWorkers(s.config.Analysis.MaxWorkers),
		review.WithLogger(s.logger),
		review.WithCache(s.cache(opts.NoCache)),
	}
	if opts.OnProgress != nil {
		engineOpts = append(engineOpts, review.WithProgress(opts.OnProgress))
	}
	return review.New(engineOpts...)
}

func (s *Service) cache(disabled bool) *cache.Cache {
	cfg := s.config.Cache
	if disabled || !cfg.Enabled {
		return cache.Disabled()
	}
	c, err := cache.New(cfg.Dir, time.Duration(cfg.TTL)*time.Hour, true)
	if err != nil {
		s.logger.Warn("cache unavailable", "dir", cfg.Dir, "error", err)
		return cache.Disabled()
	}
	return c
}

// Scan expands paths into the Python files to review.
func (s *Service) Scan(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := scanner.NewScanner(s.config).ScanPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

// ReviewPaths scans paths and reviews every file found.
func (s *Service) ReviewPaths(ctx context.Context, paths []string, opts ReviewOptions) (*Result, error) {
	files, err := s.Scan(paths)
	if err != nil {
		return nil, err
	}
	return s.ReviewFiles(ctx, files, opts)
}

// ReviewFiles reviews the given files.
func (s *Service) ReviewFiles(ctx context.Context, files []string, opts ReviewOptions) (*Result, error) {
	engine := s.Engine(opts)
	reviews, err := engine.AnalyzeFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	return &Result{Files: reviews, Summary: review.Summarize(reviews, engine.Threshold())}, nil
}

// ReviewSource reviews in-memory source labelled with path.
func (s *Service) ReviewSource(source []byte, path string, opts ReviewOptions) *Result {
	opts.NoCache = true
	engine := s.Engine(opts)
	fr := engine.Review(source, path)
	reviews := []models.FileReview{fr}
	return &Result{Files: reviews, Summary: review.Summarize(reviews, engine.Threshold())}
}

// Suggester builds a fix suggester. Generated fixes are only requested
// when an endpoint is configured.
func (s *Service) Suggester() (*fixer.Suggester, error) {
	cfg := s.config.Fixer
	opts := []fixer.Option{
		fixer.WithLogger(s.logger),
		fixer.WithCache(fixer.NewCache(cfg.CacheSize)),
		fixer.WithWindow(cfg.ContextLines, cfg.MaxChars),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, fixer.WithGenerator(
			fixer.NewHTTPGenerator(cfg.Endpoint, time.Duration(cfg.Timeout)*time.Second)))
	}
	return fixer.New(opts...)
}

// ReportWriter returns a writer for the configured report directory.
func (s *Service) ReportWriter() *report.Writer {
	return report.NewWriter(s.config.Report.Dir)
}

// Fixes suggests a fix for every issue of every reviewed file, keyed by
// file path. Sources missing from sources are read from disk. Files that
// could not be read are skipped.
func (s *Service) Fixes(ctx context.Context, sg *fixer.Suggester, result *Result, sources map[string][]byte) map[string][]report.Entry {
	out := make(map[string][]report.Entry, len(result.Files))
	for _, fr := range result.Files {
		if fr.Error != "" {
			continue
		}
		data, ok := sources[fr.Path]
		if !ok {
			var err error
			if data, err = os.ReadFile(fr.Path); err != nil {
				s.logger.Warn("skipping fixes", "file", fr.Path, "error", err)
				continue
			}
		}
		src := string(data)
		entries := make([]report.Entry, 0, len(fr.Issues))
		for _, issue := range fr.Issues {
			fix := sg.Suggest(ctx, fixer.Request{
				Source:   src,
				Message:  report.NormalizeDescription(issue.Message),
				Line:     issue.Line,
				Category: issue.Category,
			})
			entries = append(entries, report.Entry{Issue: issue, Fix: fix})
		}
		out[fr.Path] = entries
	}
	return out
}
