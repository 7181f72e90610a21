package review

import (
	"context"
	"fmt"
	"os"

	"github.com/panbanda/scry/internal/fileproc"
	"github.com/panbanda/scry/pkg/ast/treesitter"
	"github.com/panbanda/scry/pkg/models"
)

// AnalyzeFile reads and reviews one file, consulting the cache first.
func (e *Engine) AnalyzeFile(path string) (models.FileReview, error) {
	p := treesitter.New()
	defer p.Close()
	return e.reviewFile(p, path)
}

// AnalyzeFiles reviews files concurrently. Reviews keep the order of files;
// a file that could not be read gets a review with Error set. The returned
// error is non-nil only when ctx was cancelled.
func (e *Engine) AnalyzeFiles(ctx context.Context, files []string) ([]models.FileReview, error) {
	opts := fileproc.Options{
		MaxWorkers: e.maxWorkers,
		OnProgress: e.onProgress,
	}
	reviews, errs := fileproc.MapFiles(ctx, files, opts, e.reviewFile)

	if errs.HasErrors() {
		failed := make(map[string]error, len(errs.Errors))
		for _, pe := range errs.Errors {
			failed[pe.Path] = pe.Err
		}
		for i, path := range files {
			if err, ok := failed[path]; ok {
				e.logger.Warn("file review failed", "path", path, "error", err)
				reviews[i] = models.FileReview{Path: path, Issues: []models.Issue{}, Error: err.Error()}
			}
		}
	}
	if reviews == nil {
		reviews = []models.FileReview{}
	}
	return reviews, ctx.Err()
}

func (e *Engine) reviewFile(p *treesitter.Provider, path string) (models.FileReview, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.FileReview{}, fmt.Errorf("read %s: %w", path, err)
	}

	settings := e.settings()
	if cached, ok := e.cache.Get(path, content, settings); ok {
		e.logger.Debug("cache hit", "path", path)
		cached.Path = path
		return cached, nil
	}

	r := e.review(p, content, path)
	if err := e.cache.Set(path, content, settings, r); err != nil {
		e.logger.Warn("cache write failed", "path", path, "error", err)
	}
	return r, nil
}
