package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFParser extracts styled text from PDF files. With Preflight set, the file
// is first checked by pdfcpu so that corrupt documents fail early.
type PDFParser struct {
	Preflight bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (pages []layout.Page, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	if p.Preflight {
		if _, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
			return nil, fmt.Errorf("preflight %s: %w", filename, err)
		}
	}

	// The PDF library panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf %s: %v", filename, rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, extractPage(page, i))
	}
	return pages, nil
}

func extractPage(page pdflib.Page, number int) layout.Page {
	out := layout.Page{Number: number}

	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Kind() == pdflib.Array && mediaBox.Len() == 4 {
		out.Width = mediaBox.Index(2).Float64() - mediaBox.Index(0).Float64()
		out.Height = mediaBox.Index(3).Float64() - mediaBox.Index(1).Float64()
	}

	content := page.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, Glyph{Font: t.Font, Size: t.FontSize, X: t.X, Y: t.Y, W: t.W, S: t.S})
	}
	out.Blocks = AssembleBlocks(glyphs, pageFontMetrics(page))
	return out
}

// pageFontMetrics reads ascent and descent from the descriptors of the page's
// fonts, keyed by base font name as reported on extracted text: without the
// "ABCDEF+" subset tag.
func pageFontMetrics(page pdflib.Page) map[string]FontMetrics {
	metrics := make(map[string]FontMetrics)
	for _, res := range page.Fonts() {
		font := page.Font(res)
		desc := font.V.Key("FontDescriptor")
		if desc.IsNull() {
			// Type0 fonts describe themselves through their descendant.
			desc = font.V.Key("DescendantFonts").Index(0).Key("FontDescriptor")
		}
		ascent, descent := desc.Key("Ascent"), desc.Key("Descent")
		if ascent.IsNull() || descent.IsNull() {
			continue
		}
		name := font.BaseFont()
		if i := strings.Index(name, "+"); i >= 0 {
			name = name[i+1:]
		}
		metrics[name] = FontMetrics{
			Ascender:  ascent.Float64() / 1000,
			Descender: descent.Float64() / 1000,
		}
	}
	return metrics
}
