package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewTracker(t *testing.T) {
	tests := []struct {
		name  string
		label string
		total int
	}{
		{name: "standard tracker", label: "Reviewing files", total: 100},
		{name: "zero total", label: "Empty task", total: 0},
		{name: "single item", label: "One file", total: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTrackerTo(&bytes.Buffer{}, tt.label, tt.total)
			if tracker.bar == nil {
				t.Error("tracker.bar should not be nil")
			}
			if tracker.label != tt.label {
				t.Errorf("tracker.label = %q, want %q", tracker.label, tt.label)
			}
		})
	}
}

func TestSpinner(t *testing.T) {
	tracker := newSpinner(&bytes.Buffer{}, "Scanning...")
	tracker.Tick()
	tracker.FinishSuccess()
}

func TestTrackerTickConcurrent(t *testing.T) {
	tracker := NewTrackerTo(&bytes.Buffer{}, "Concurrent test", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.Tick()
			}
		}()
	}
	wg.Wait()
	tracker.FinishSuccess()
}

func TestTrackerFinishError(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTrackerTo(&buf, "Reviewing", 3)
	tracker.Tick()
	tracker.FinishError(errors.New("disk full"))

	if !strings.Contains(buf.String(), "Reviewing error: disk full") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNilTracker(t *testing.T) {
	var tracker *Tracker
	tracker.Tick()
	tracker.FinishSuccess()
	tracker.FinishError(errors.New("ignored"))
}
