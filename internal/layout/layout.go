// Package layout is the typed page structure handed over by document
// sources: pages hold blocks, blocks hold lines, lines hold styled spans.
package layout

import (
	"errors"
	"fmt"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/outline"
)

// RedactedBinary replaces any binary payload found in a page.
const RedactedBinary = "<binary data>"

var (
	ErrMissingMetric = errors.New("missing span metric")
	ErrInvalidMetric = errors.New("invalid span metric")
)

// Page is the text content of one page.
type Page struct {
	Number int     `json:"number"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Block is a text block or an image block. Image blocks carry no lines.
type Block struct {
	Type  int     `json:"type"`
	Lines []Line  `json:"lines,omitempty"`
	Image Payload `json:"image,omitempty"`
}

// Line is a sequence of spans sharing a baseline.
type Line struct {
	Spans []Span `json:"spans"`
}

// Span is a run of text with uniform font and size. Metrics are pointers so a
// missing value can be told apart from zero.
type Span struct {
	Text      string   `json:"text"`
	Size      *float64 `json:"size,omitempty"`
	Ascender  *float64 `json:"ascender,omitempty"`
	Descender *float64 `json:"descender,omitempty"`
	Font      string   `json:"font,omitempty"`
}

// Metric is a convenience for building spans.
func Metric(v float64) *float64 {
	return &v
}

// Payload stands in for binary content. The bytes are never kept: decoding
// only records that something was there, and encoding writes the placeholder.
type Payload struct {
	present bool
}

// Redacted reports whether a payload was present and dropped.
func (p Payload) Redacted() bool {
	return p.present
}

// NewPayload records a payload of n bytes.
func NewPayload(n int) Payload {
	return Payload{present: n > 0}
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	p.present = string(b) != "null"
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if !p.present {
		return []byte("null"), nil
	}
	return []byte(`"` + RedactedBinary + `"`), nil
}

// SpanError locates a span that cannot be processed.
type SpanError struct {
	Page  int
	Block int
	Line  int
	Span  int
	Field string
	Err   error
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("page %d block %d line %d span %d: %s: %v", e.Page, e.Block, e.Line, e.Span, e.Field, e.Err)
}

func (e *SpanError) Unwrap() error {
	return e.Err
}

// Flatten validates pages and returns their spans in document order.
func Flatten(pages []Page) ([]outline.Span, error) {
	var spans []outline.Span
	for _, page := range pages {
		for bi, block := range page.Blocks {
			if len(block.Lines) == 0 {
				continue
			}
			for li, line := range block.Lines {
				for si, s := range line.Spans {
					fail := func(field string, err error) error {
						return &SpanError{Page: page.Number, Block: bi, Line: li, Span: si, Field: field, Err: err}
					}
					if page.Number <= 0 {
						return nil, fail("page_number", ErrInvalidMetric)
					}
					switch {
					case s.Size == nil:
						return nil, fail("size", ErrMissingMetric)
					case s.Ascender == nil:
						return nil, fail("ascender", ErrMissingMetric)
					case s.Descender == nil:
						return nil, fail("descender", ErrMissingMetric)
					case *s.Size <= 0:
						return nil, fail("size", ErrInvalidMetric)
					}
					spans = append(spans, outline.Span{
						Page:      page.Number,
						Size:      *s.Size,
						Ascender:  *s.Ascender,
						Descender: *s.Descender,
						Font:      s.Font,
						Text:      s.Text,
					})
				}
			}
		}
	}
	return spans, nil
}
