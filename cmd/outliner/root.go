package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "outliner",
	Short: "Infer titles and heading outlines from PDF documents",
	Long: `Outliner reads PDF documents (or pre-extracted page layout dumps) and
infers a title plus an H1/H2/H3 outline from font sizes alone.

Each document produces one JSON file:
  {"title": "...", "outline": [{"level": "H1", "text": "...", "page": 1}]}`,
	Version:      gitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (YAML); OUTLINER_* environment variables override it",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "", "output format for printed results: json, yaml, markdown or html",
	)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(runCmd, watchCmd, serveCmd, inspectCmd, renderCmd, versionCmd)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// cliLogger writes human-readable logs to stderr so stdout stays free for results.
func cliLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
