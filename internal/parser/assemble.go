package parser

import (
	"math"
	"strings"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
	"golang.org/x/text/unicode/norm"
)

// Glyph is one positioned text element as produced by the PDF content stream.
type Glyph struct {
	Font string
	Size float64
	X, Y float64 // baseline origin, PDF user space (Y grows upwards)
	W    float64
	S    string
}

// FontMetrics are the normalised ascender and descender of a font.
type FontMetrics struct {
	Ascender  float64
	Descender float64
}

// DefaultMetrics is used when a font does not describe its own metrics.
var DefaultMetrics = FontMetrics{Ascender: 0.8, Descender: -0.2}

const (
	// Baselines closer than this fraction of the font size share a line.
	lineTolerance = 0.5
	// Horizontal gaps wider than this fraction of the font size become a space.
	wordGap = 0.15
	// A vertical step larger than this many font sizes starts a new block.
	blockGap = 2.0
)

// AssembleBlocks groups glyphs, in content stream order, into spans of equal
// font and size, spans into lines sharing a baseline, and lines into blocks.
func AssembleBlocks(glyphs []Glyph, metrics map[string]FontMetrics) []layout.Block {
	var (
		blocks   []layout.Block
		block    *layout.Block
		line     *layout.Line
		builder  strings.Builder
		cur      Glyph // last glyph appended to the current span
		inSpan   bool
		lineY    float64
		lineSize float64
	)

	flushSpan := func() {
		if !inSpan {
			return
		}
		m, ok := metrics[cur.Font]
		if !ok {
			m = DefaultMetrics
		}
		line.Spans = append(line.Spans, layout.Span{
			Text:      norm.NFC.String(builder.String()),
			Size:      layout.Metric(cur.Size),
			Ascender:  layout.Metric(m.Ascender),
			Descender: layout.Metric(m.Descender),
			Font:      cur.Font,
		})
		builder.Reset()
		inSpan = false
	}
	flushLine := func() {
		flushSpan()
		if line != nil && len(line.Spans) > 0 {
			block.Lines = append(block.Lines, *line)
		}
		line = nil
	}
	flushBlock := func() {
		flushLine()
		if block != nil && len(block.Lines) > 0 {
			blocks = append(blocks, *block)
		}
		block = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}

		size := math.Max(g.Size, 1)
		if line != nil && math.Abs(g.Y-lineY) > lineTolerance*math.Max(size, lineSize) {
			step := lineY - g.Y
			flushLine()
			if step < 0 || step > blockGap*math.Max(size, lineSize) {
				flushBlock()
			}
		}
		if block == nil {
			block = &layout.Block{}
		}
		if line == nil {
			line = &layout.Line{}
			lineY = g.Y
			lineSize = size
		}

		gap := inSpan && g.X-(cur.X+cur.W) > wordGap*size
		if inSpan && (g.Font != cur.Font || g.Size != cur.Size) {
			flushSpan()
		}
		if gap && !strings.HasPrefix(g.S, " ") && !strings.HasSuffix(builder.String(), " ") {
			builder.WriteByte(' ')
		}

		builder.WriteString(g.S)
		cur = g
		inSpan = true
	}
	flushBlock()

	return blocks
}
