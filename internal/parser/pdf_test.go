package parser

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/doctree"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/outline"
	pdflib "github.com/ledongthuc/pdf"
)

// buildPDF writes objects 1..n with a matching xref table. Object 1 must be
// the catalog.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func contentStream(ops string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(ops), ops)
}

func singlePagePDF(fonts, content string, extra ...string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << " + fonts + " >> >> /Contents 4 0 R >>",
		contentStream(content),
	}
	return buildPDF(append(objects, extra...)...)
}

func reportPDF() []byte {
	return singlePagePDF("/F1 5 0 R",
		"BT /F1 24 Tf 72 720 Td (Annual Report) Tj ET\n"+
			"BT /F1 18 Tf 72 680 Td (Financial Results) Tj ET\n"+
			"BT /F1 10 Tf 72 650 Td (Revenue grew in every region.) Tj ET",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
}

func parsePDF(t *testing.T, data []byte, preflight bool) []layout.Page {
	t.Helper()
	p := &PDFParser{Preflight: preflight}
	pages, err := p.Parse(bytes.NewReader(data), "report.pdf")
	if err != nil {
		t.Fatalf("preflight=%v: unexpected error: %v", preflight, err)
	}
	return pages
}

func TestPDFParser_ExtractsStyledSpans(t *testing.T) {
	want := []outline.Span{
		{Page: 1, Size: 24, Ascender: 0.8, Descender: -0.2, Font: "Helvetica", Text: "Annual Report"},
		{Page: 1, Size: 18, Ascender: 0.8, Descender: -0.2, Font: "Helvetica", Text: "Financial Results"},
		{Page: 1, Size: 10, Ascender: 0.8, Descender: -0.2, Font: "Helvetica", Text: "Revenue grew in every region."},
	}

	for _, preflight := range []bool{false, true} {
		pages := parsePDF(t, reportPDF(), preflight)
		if len(pages) != 1 {
			t.Fatalf("preflight=%v: expected 1 page, got %d", preflight, len(pages))
		}
		if pages[0].Number != 1 || pages[0].Width != 612 || pages[0].Height != 792 {
			t.Errorf("preflight=%v: unexpected page %+v", preflight, pages[0])
		}

		spans, err := layout.Flatten(pages)
		if err != nil {
			t.Fatalf("preflight=%v: unexpected error: %v", preflight, err)
		}
		if len(spans) != len(want) {
			t.Fatalf("preflight=%v: expected %d spans, got %+v", preflight, len(want), spans)
		}
		for i := range want {
			if spans[i] != want[i] {
				t.Errorf("preflight=%v: span %d = %+v, want %+v", preflight, i, spans[i], want[i])
			}
		}
	}
}

func TestPDFParser_OutlineFromPDF(t *testing.T) {
	spans, err := layout.Flatten(parsePDF(t, reportPDF(), true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := outline.Extract(spans)
	if got.Title != "Annual Report" {
		t.Errorf("expected title %q, got %q", "Annual Report", got.Title)
	}
	if len(got.Outline) != 1 || got.Outline[0] != (doctree.Entry{Level: doctree.H1, Text: "Financial Results", Page: 1}) {
		t.Errorf("unexpected outline %+v", got.Outline)
	}
}

func descriptorPDF() []byte {
	return singlePagePDF("/F1 5 0 R /F2 7 0 R",
		"BT /F1 20 Tf 72 700 Td (Overview) Tj ET",
		"<< /Type /Font /Subtype /Type1 /BaseFont /ABCDEF+Custom /Encoding /WinAnsiEncoding /FontDescriptor 6 0 R >>",
		"<< /Type /FontDescriptor /FontName /ABCDEF+Custom /Ascent 900 /Descent -250 >>",
		"<< /Type /Font /Subtype /Type0 /BaseFont /Gothic /Encoding /Identity-H /DescendantFonts [8 0 R] >>",
		"<< /Type /Font /Subtype /CIDFontType2 /BaseFont /Gothic /FontDescriptor 9 0 R >>",
		"<< /Type /FontDescriptor /FontName /Gothic /Ascent 880 /Descent -120 >>",
	)
}

func TestPDFParser_FontDescriptorMetrics(t *testing.T) {
	pages := parsePDF(t, descriptorPDF(), false)
	spans, err := layout.Flatten(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := outline.Span{Page: 1, Size: 20, Ascender: 0.9, Descender: -0.25, Font: "Custom", Text: "Overview"}
	if len(spans) != 1 || spans[0] != want {
		t.Fatalf("expected %+v, got %+v", want, spans)
	}
}

func TestPageFontMetrics_Type0Descendant(t *testing.T) {
	data := descriptorPDF()
	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	metrics := pageFontMetrics(r.Page(1))

	if got := metrics["Gothic"]; got != (FontMetrics{Ascender: 0.88, Descender: -0.12}) {
		t.Errorf("unexpected Type0 metrics %+v", got)
	}
	if got := metrics["Custom"]; got != (FontMetrics{Ascender: 0.9, Descender: -0.25}) {
		t.Errorf("unexpected subset font metrics %+v", got)
	}
	if len(metrics) != 2 {
		t.Errorf("expected 2 fonts with metrics, got %v", metrics)
	}
}
