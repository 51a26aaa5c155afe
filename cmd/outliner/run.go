package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/pipeline"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/render"
	"github.com/spf13/cobra"
)

var (
	inputDir  string
	outputDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Outline every document in the input directory",
	Long: `Process every *.pdf and *.layout.json file in the input directory and
write <name>.json for each into the output directory.

A document that cannot be processed is logged and skipped; the others are
still written. An empty input directory is logged and is not an error.

Examples:
  outliner run                                  # /app/input -> /app/output
  outliner run --input-dir ./pdfs --output-dir ./out
  outliner run -o json                          # also print the batch report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyDirFlags(cmd, &cfg.InputDir, &cfg.OutputDir)
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := cliLogger()
		orch := pipeline.NewOrchestrator(cfg, log)
		orch.Start(cmd.Context())
		defer orch.Stop()

		report, err := orch.RunBatch(cmd.Context(), cfg.InputDir, cfg.OutputDir)
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, watchCmd} {
		c.Flags().StringVar(&inputDir, "input-dir", "", "directory with input documents (default from config)")
		c.Flags().StringVar(&outputDir, "output-dir", "", "directory for outline JSON files (default from config)")
	}
}

func applyDirFlags(cmd *cobra.Command, in, out *string) {
	if cmd.Flags().Changed("input-dir") {
		*in = inputDir
	}
	if cmd.Flags().Changed("output-dir") {
		*out = outputDir
	}
}

func printReport(w io.Writer, report pipeline.Report) error {
	switch outputFormat {
	case "":
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		return render.YAML(w, report)
	default:
		return fmt.Errorf("unsupported report format %q (use json or yaml)", outputFormat)
	}
}
