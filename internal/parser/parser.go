package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
)

// ErrUnsupported is returned for files no parser handles.
var ErrUnsupported = errors.New("unsupported file type")

// Parser converts raw document bytes into typed pages.
type Parser interface {
	Parse(r io.Reader, filename string) ([]layout.Page, error)
}

// Options tune the parsers returned by ForFile.
type Options struct {
	// PDFPreflight validates PDFs with pdfcpu before extracting text.
	PDFPreflight bool
}

// Suffixes lists the file suffixes this service can handle, longest first.
var Suffixes = []string{".layout.json", ".pdf"}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	switch matchSuffix(filename) {
	case ".pdf":
		return &PDFParser{Preflight: opts.PDFPreflight}, nil
	case ".layout.json":
		return &LayoutParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
	}
}

// IsSupported checks if a file name has a supported suffix.
func IsSupported(filename string) bool {
	return matchSuffix(filename) != ""
}

// OutputName derives the outline file name from a document name: the base
// name with its supported suffix replaced by ".json".
func OutputName(filename string) string {
	base := filepath.Base(filename)
	if suffix := matchSuffix(base); suffix != "" {
		base = base[:len(base)-len(suffix)]
	}
	return base + ".json"
}

func matchSuffix(filename string) string {
	lower := strings.ToLower(filename)
	for _, s := range Suffixes {
		if strings.HasSuffix(lower, s) && len(lower) > len(s) {
			return s
		}
	}
	return ""
}
