package main

import (
	"os"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/pipeline"
	"github.com/spf13/cobra"
)

var skipExisting bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Outline documents as they arrive in the input directory",
	Long: `Process the documents already in the input directory, then keep
watching it and outline every new *.pdf or *.layout.json file once it has
finished being written. Stops on Ctrl+C or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyDirFlags(cmd, &cfg.InputDir, &cfg.OutputDir)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return err
		}

		ctx := cmd.Context()
		log := cliLogger()
		orch := pipeline.NewOrchestrator(cfg, log)
		orch.Start(ctx)
		defer orch.Stop()

		// Watch before the initial pass so files landing during it are seen.
		w, err := pipeline.NewWatcher(orch, cfg.InputDir, cfg.OutputDir, log)
		if err != nil {
			return err
		}

		if !skipExisting {
			if _, err := orch.RunBatch(ctx, cfg.InputDir, cfg.OutputDir); err != nil {
				return err
			}
		}
		return w.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "do not process documents already present at startup")
}
