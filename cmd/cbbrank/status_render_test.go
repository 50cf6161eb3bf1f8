package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Alias table", statusError, "missing", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Alias table:", "[ERROR] missing")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Games", statusOK, "", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestPreflightLines(t *testing.T) {
	results := []preflight.Result{
		{Name: "Data directory", Passed: true},
		{Name: "Source net", Passed: false, Optional: true, Detail: "file not found"},
		{Name: "Games", Passed: false, Detail: "no team column"},
	}
	lines := preflightLines(results, false)
	if len(lines) != 4 {
		t.Fatalf("expected summary plus 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR] 1 of 2 required checks failed") {
		t.Fatalf("unexpected summary %q", lines[0])
	}
	if !strings.Contains(lines[2], "[WARN] file not found") {
		t.Fatalf("optional failure should warn: %q", lines[2])
	}

	lines = preflightLines(results[:2], false)
	if !strings.Contains(lines[0], "[WARN] 1 optional checks need attention") {
		t.Fatalf("unexpected summary %q", lines[0])
	}
}

func TestShouldColorizeBuffer(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are not terminals")
	}
}
