package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
)

const samplePages = `[
  {"blocks": [
    {"type": 0, "lines": [{"spans": [
      {"text": "Design Notes", "size": 24, "ascender": 0.9, "descender": -0.2, "font": "Arial-Bold"}
    ]}]},
    {"type": 1, "image": "iVBORw0KGgo="}
  ]},
  {"blocks": [
    {"type": 0, "lines": [{"spans": [
      {"text": "Background", "size": 18, "ascender": 0.9, "descender": -0.2}
    ]}]}
  ]}
]`

func TestLayoutParser_ArrayForm(t *testing.T) {
	p := &LayoutParser{}
	pages, err := p.Parse(strings.NewReader(samplePages), "notes.layout.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Number != 1 || pages[1].Number != 2 {
		t.Errorf("expected pages numbered 1 and 2, got %d and %d", pages[0].Number, pages[1].Number)
	}
	if !pages[0].Blocks[1].Image.Redacted() {
		t.Error("expected image block payload to be redacted")
	}

	spans, err := layout.Flatten(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[1].Font != "" || spans[1].Page != 2 {
		t.Errorf("unexpected second span %+v", spans[1])
	}
}

func TestLayoutParser_ObjectForm(t *testing.T) {
	src := `{"pages": [{"number": 7, "blocks": []}]}`
	pages, err := (&LayoutParser{}).Parse(strings.NewReader(src), "x.layout.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 || pages[0].Number != 7 {
		t.Errorf("unexpected pages %+v", pages)
	}
}

func TestLayoutParser_MissingMetricSurfacesOnFlatten(t *testing.T) {
	src := `[{"blocks": [{"lines": [{"spans": [{"text": "x", "size": 12, "descender": -0.2}]}]}]}]`
	pages, err := (&LayoutParser{}).Parse(strings.NewReader(src), "x.layout.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := layout.Flatten(pages); !errors.Is(err, layout.ErrMissingMetric) {
		t.Errorf("expected ErrMissingMetric, got %v", err)
	}
}

func TestLayoutParser_Empty(t *testing.T) {
	pages, err := (&LayoutParser{}).Parse(strings.NewReader("  \n"), "empty.layout.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected no pages, got %d", len(pages))
	}
}

func TestLayoutParser_InvalidJSON(t *testing.T) {
	if _, err := (&LayoutParser{}).Parse(strings.NewReader("{not json"), "bad.layout.json"); err == nil {
		t.Error("expected decode error")
	}
}
