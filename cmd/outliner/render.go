package main

import (
	"fmt"
	"io"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/outline"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/render"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: "Print the outline of a single document",
	Long: `Outline one document and print the result to stdout.

Formats (-o): json (default, same as the batch output files), yaml,
markdown, html (a standalone preview page).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spans, err := loadSpans(args[0])
		if err != nil {
			return err
		}
		o := outline.Extract(spans)

		out := cmd.OutOrStdout()
		switch outputFormat {
		case "", "json":
			return render.JSON(out, o)
		case "yaml":
			return render.YAML(out, o)
		case "markdown", "md":
			_, err := io.WriteString(out, render.Markdown(o))
			return err
		case "html":
			return render.HTML(out, o)
		default:
			return fmt.Errorf("unsupported render format %q", outputFormat)
		}
	},
}
