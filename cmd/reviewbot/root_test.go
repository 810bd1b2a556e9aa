package main

import (
	"strings"
	"testing"

	"github.com/ignite/review-responder/internal/engine"
)

func TestFprintRunResultLanesSorted(t *testing.T) {
	result := &engine.RunResult{
		RunID:   "run-1",
		Fetched: 6,
		LaneCounts: map[string]int{
			"SKIP_ALREADY_COMMENTED": 1,
			"AI_NEGATIVE":            2,
			"AUTO_NO_TEXT":           3,
		},
		Sent: 5,
	}

	var first string
	for i := 0; i < 10; i++ {
		var b strings.Builder
		fprintRunResult(&b, result)
		out := b.String()

		idxAI := strings.Index(out, "AI_NEGATIVE")
		idxAuto := strings.Index(out, "AUTO_NO_TEXT")
		idxSkip := strings.Index(out, "SKIP_ALREADY_COMMENTED")
		if idxAI < 0 || idxAuto < 0 || idxSkip < 0 {
			t.Fatalf("missing lane lines in output:\n%s", out)
		}
		if !(idxAI < idxAuto && idxAuto < idxSkip) {
			t.Errorf("lanes not in sorted order:\n%s", out)
		}

		if first == "" {
			first = out
		} else if out != first {
			t.Fatalf("output differs between runs:\n%s\n---\n%s", first, out)
		}
	}
}

func TestFprintRunResultAborted(t *testing.T) {
	result := &engine.RunResult{RunID: "run-2", Aborted: "declined by operator"}

	var b strings.Builder
	fprintRunResult(&b, result)

	if !strings.Contains(b.String(), "aborted: declined by operator") {
		t.Errorf("expected aborted line, got:\n%s", b.String())
	}
}
