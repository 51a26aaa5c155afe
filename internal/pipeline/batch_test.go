package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/config"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/doctree"
)

// sampleLayout has a 24pt title, an 18pt H1, a 12pt H2 and 9pt body text.
const sampleLayout = `[
  {"blocks": [
    {"lines": [{"spans": [{"text": "Design Notes", "size": 24, "ascender": 0.9, "descender": -0.2, "font": "Bold"}]}]},
    {"lines": [{"spans": [{"text": "Background", "size": 18, "ascender": 0.9, "descender": -0.2, "font": "Bold"}]}]},
    {"lines": [{"spans": [{"text": "Body copy that is far too small.", "size": 9, "ascender": 0.9, "descender": -0.2, "font": "Regular"}]}]}
  ]},
  {"blocks": [
    {"lines": [{"spans": [{"text": "Scope of work", "size": 12, "ascender": 0.9, "descender": -0.2, "font": "Bold"}]}]}
  ]}
]`

func testConfig() config.Config {
	return config.Config{
		WorkerCount:   2,
		MaxQueueSize:  10,
		JobTTL:        time.Hour,
		WatchSettle:   20 * time.Millisecond,
		WatchAttempts: 100,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(testConfig(), testLogger())
	o.Start(context.Background())
	t.Cleanup(o.Stop)
	return o
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readOutline(t *testing.T, path string) doctree.Outline {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var o doctree.Outline
	if err := json.Unmarshal(data, &o); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return o
}

func TestRunBatch_WritesOneOutlinePerDocument(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "nested", "out")
	writeFile(t, in, "notes.layout.json", sampleLayout)
	writeFile(t, in, "readme.txt", "ignored")

	o := startOrchestrator(t)
	report, err := o.RunBatch(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Documents) != 1 || report.Succeeded() != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	res := report.Documents[0]
	if res.Output != filepath.Join(out, "notes.json") {
		t.Errorf("unexpected output path %q", res.Output)
	}
	got := readOutline(t, res.Output)
	if got.Title != "Design Notes" {
		t.Errorf("expected title %q, got %q", "Design Notes", got.Title)
	}
	want := []doctree.Entry{
		{Level: doctree.H1, Text: "Background", Page: 1},
		{Level: doctree.H2, Text: "Scope of work", Page: 2},
	}
	if len(got.Outline) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), got.Outline)
	}
	for i := range want {
		if got.Outline[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got.Outline[i])
		}
	}

	if snap := o.Stats(); snap.Count != 1 || snap.Failed != 0 {
		t.Errorf("unexpected stats %+v", snap)
	}
}

func TestRunBatch_IsolatesFailingDocument(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, in, "a.layout.json", sampleLayout)
	writeFile(t, in, "b.layout.json", "{not json")
	writeFile(t, in, "c.layout.json", `[{"blocks": [{"lines": [{"spans": [{"text": "No metrics", "size": 12}]}]}]}]`)
	writeFile(t, in, "d.layout.json", sampleLayout)

	// An output from an earlier run must survive a failed rerun.
	earlier := writeFile(t, out, "b.json", `{"title": "earlier", "outline": []}`)

	o := startOrchestrator(t)
	report, err := o.RunBatch(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Documents) != 4 {
		t.Fatalf("expected 4 results, got %d", len(report.Documents))
	}

	wantStatus := map[string]JobStatus{
		"a.layout.json": StatusCompleted,
		"b.layout.json": StatusFailed,
		"c.layout.json": StatusFailed,
		"d.layout.json": StatusCompleted,
	}
	for i, res := range report.Documents {
		if res.Status != wantStatus[res.Input] {
			t.Errorf("%s: expected %q, got %q (%v)", res.Input, wantStatus[res.Input], res.Status, res.Errors)
		}
		if res.Status == StatusFailed && len(res.Errors) == 0 {
			t.Errorf("%s: expected a failure reason", res.Input)
		}
		if i > 0 && report.Documents[i-1].Input > res.Input {
			t.Errorf("expected results sorted by input name")
		}
	}
	if report.Succeeded() != 2 || report.Failed() != 2 {
		t.Errorf("expected 2/2, got %d/%d", report.Succeeded(), report.Failed())
	}

	if got := readOutline(t, earlier); got.Title != "earlier" {
		t.Errorf("expected earlier output intact, got %+v", got)
	}
	if _, err := os.Stat(filepath.Join(out, "c.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output for failed document, got %v", err)
	}
}

func TestRunBatch_RejectsOutputCollisions(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, in, "report.layout.json", sampleLayout)
	writeFile(t, in, "report.pdf", "%PDF-1.4")
	writeFile(t, in, "other.layout.json", sampleLayout)

	o := startOrchestrator(t)
	report, err := o.RunBatch(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, res := range report.Documents {
		switch res.Input {
		case "report.layout.json", "report.pdf":
			if res.Status != StatusFailed {
				t.Errorf("%s: expected collision failure, got %q", res.Input, res.Status)
			}
		case "other.layout.json":
			if res.Status != StatusCompleted {
				t.Errorf("%s: expected completed, got %q", res.Input, res.Status)
			}
		}
	}
	if _, err := os.Stat(filepath.Join(out, "report.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output for colliding inputs, got %v", err)
	}
}

func TestRunBatch_EmptyInputIsNotFatal(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	o := startOrchestrator(t)

	report, err := o.RunBatch(context.Background(), in, out)
	if err != nil {
		t.Fatalf("expected no error for empty input, got %v", err)
	}
	if len(report.Documents) != 0 {
		t.Errorf("expected empty report, got %+v", report.Documents)
	}
}

func TestRunBatch_MissingInputDir(t *testing.T) {
	o := startOrchestrator(t)
	if _, err := o.RunBatch(context.Background(), filepath.Join(t.TempDir(), "absent"), t.TempDir()); err == nil {
		t.Error("expected error for missing input directory")
	}
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	if _, err := ListDocuments(dir); !errors.Is(err, ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}

	writeFile(t, dir, "b.PDF", "x")
	writeFile(t, dir, "a.layout.json", "[]")
	writeFile(t, dir, "notes.md", "x")
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := ListDocuments(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "a.layout.json" || names[1] != "b.PDF" {
		t.Errorf("unexpected documents %v", names)
	}
}

func TestCollisions(t *testing.T) {
	got := Collisions([]string{"a.pdf", "a.layout.json", "b.pdf"})
	if len(got) != 1 {
		t.Fatalf("expected one collision, got %v", got)
	}
	if inputs := got["a.json"]; len(inputs) != 2 || inputs[0] != "a.pdf" {
		t.Errorf("unexpected inputs %v", inputs)
	}
}
