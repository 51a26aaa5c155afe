package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/outline"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/parser"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/render"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <document>",
	Short: "Show how the classifier sees a document",
	Long: `Print the size ranking, title size, H1 base, heading bands and the
resulting outline for a single document. Output is YAML unless -o json is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spans, err := loadSpans(args[0])
		if err != nil {
			return err
		}
		analysis := outline.Analyze(spans)

		out := cmd.OutOrStdout()
		switch outputFormat {
		case "", "yaml":
			return render.YAML(out, analysis)
		case "json":
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		default:
			return fmt.Errorf("unsupported inspect format %q (use yaml or json)", outputFormat)
		}
	},
}

// loadSpans parses one document and flattens it into text spans.
func loadSpans(path string) ([]outline.Span, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := parser.ForFile(path, parser.Options{PDFPreflight: cfg.PDFPreflight})
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return layout.Flatten(pages)
}
