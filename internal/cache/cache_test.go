package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/panbanda/scry/pkg/models"
)

func sampleReview() models.FileReview {
	return models.FileReview{
		Path:   "a.py",
		Issues: []models.Issue{models.NewIssue(1, models.CategoryUnusedImport, "Unused import detected: 'os'. Consider removing it.")},
		Functions: []models.FunctionComplexity{
			{Name: "f", Line: 3, Score: 2},
		},
	}
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := New(filepath.Join(tmpDir, "cache"), 24*time.Hour, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}

	c, err = New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil cache should be disabled")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	if _, err := New(cacheDir, time.Hour, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}
}

func TestSetAndGet(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	content := []byte("import os\n")
	if err := c.Set("a.py", content, "threshold=10", sampleReview()); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok := c.Get("a.py", content, "threshold=10")
	if !ok {
		t.Fatal("Get() should hit")
	}
	if !got.Cached {
		t.Error("cached review should be marked Cached")
	}
	if len(got.Issues) != 1 || got.Issues[0].Category != models.CategoryUnusedImport {
		t.Errorf("Get() issues = %+v", got.Issues)
	}
	if len(got.Functions) != 1 || got.Functions[0].Score != 2 {
		t.Errorf("Get() functions = %+v", got.Functions)
	}
}

func TestGetMisses(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	content := []byte("import os\n")
	if err := c.Set("a.py", content, "threshold=10", sampleReview()); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	if _, ok := c.Get("a.py", []byte("import sys\n"), "threshold=10"); ok {
		t.Error("changed content should miss")
	}
	if _, ok := c.Get("a.py", content, "threshold=5"); ok {
		t.Error("changed settings should miss")
	}
	if _, ok := c.Get("b.py", content, "threshold=10"); ok {
		t.Error("unknown path should miss")
	}
}

func TestExpiredEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, time.Nanosecond, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	content := []byte("x = 1\n")
	if err := c.Set("a.py", content, "", sampleReview()); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if _, ok := c.Get("a.py", content, ""); ok {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.keyPath("a.py")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestDisabledCache(t *testing.T) {
	c := Disabled()
	if err := c.Set("a.py", nil, "", sampleReview()); err != nil {
		t.Errorf("Set() on disabled cache error: %v", err)
	}
	if _, ok := c.Get("a.py", nil, ""); ok {
		t.Error("disabled cache should never hit")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() error: %v", err)
	}
}

func TestInvalidateAndStats(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 0, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, p := range []string{"a.py", "b.py"} {
		if err := c.Set(p, []byte(p), "", sampleReview()); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}

	if err := c.Invalidate("a.py"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if err := c.Invalidate("missing.py"); err != nil {
		t.Errorf("Invalidate() of missing entry error: %v", err)
	}
	if _, ok := c.Get("a.py", []byte("a.py"), ""); ok {
		t.Error("invalidated entry should miss")
	}
	if _, ok := c.Get("b.py", []byte("b.py"), ""); !ok {
		t.Error("zero ttl should keep entries")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, ok := c.Get("b.py", []byte("b.py"), ""); ok {
		t.Error("cleared cache should miss")
	}
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("x"), []byte("y"))
	if a != HashBytes([]byte("x"), []byte("y")) {
		t.Error("HashBytes should be deterministic")
	}
	if a == HashBytes([]byte("x"), []byte("z")) {
		t.Error("different input should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}
