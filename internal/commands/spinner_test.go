package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var out bytes.Buffer
	s := newSpinner(&out, "Analyse")
	s.start()
	// Let it spin briefly
	time.Sleep(100 * time.Millisecond)
	s.stopWithSuccess("done")

	if !strings.Contains(out.String(), "done") {
		t.Errorf("expected success message, got %q", out.String())
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var out bytes.Buffer
	s := newSpinner(&out, "Analyse")
	s.start()
	time.Sleep(30 * time.Millisecond)
	// Should stop cleanly on error (no panic)
	s.stopWithError()
	s.stopWithError()
}

func TestBubbleWidth(t *testing.T) {
	w := bubbleWidth()
	if w < 40 || w > 120 {
		t.Errorf("bubbleWidth() = %d, want within [40, 120]", w)
	}
}
