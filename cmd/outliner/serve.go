package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/api"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/pipeline"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the outline HTTP API",
	Long: `Start the HTTP API. Documents are uploaded to /api/outline and
processed asynchronously; poll /api/outline/{id}/status and fetch the result
from /api/outline/{id}. Requires OUTLINER_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if err := cfg.ValidateServe(); err != nil {
			log.Error("invalid configuration", "error", err)
			return err
		}

		ctx := cmd.Context()

		orch := pipeline.NewOrchestrator(cfg, log)
		orch.Start(ctx)

		srv := api.NewServer(orch, log, cfg)
		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown. Shutdown waits for in-flight handlers, and the
		// orchestrator is stopped only after it returns.
		shutdownDone := make(chan struct{})
		go func() {
			defer close(shutdownDone)
			<-ctx.Done()
			log.Info("shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting outliner", "port", cfg.Port, "workers", cfg.WorkerCount)
		err = httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			orch.Stop()
			log.Error("server error", "error", err)
			return err
		}
		<-shutdownDone
		orch.Stop()
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (default from config)")
}
