package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Batch directories
	InputDir  string
	OutputDir string

	// HTTP
	Port   string
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFPreflight bool

	// Watch mode: how long a new file's size must stay unchanged, and how
	// many times it is checked before giving up.
	WatchSettle   time.Duration
	WatchAttempts int
}

const (
	defaultWorkerCount    = 4
	defaultMaxQueueSize   = 100
	defaultMaxUploadBytes = 52428800 // 50MB
	defaultJobTTL         = 1 * time.Hour
	defaultWatchSettle    = 500 * time.Millisecond
	defaultWatchAttempts  = 10
)

// Load reads configuration from defaults, an optional YAML file and
// OUTLINER_* environment variables, in increasing order of precedence.
func Load(file string) (Config, error) {
	v := viper.New()
	v.SetDefault("input_dir", "/app/input")
	v.SetDefault("output_dir", "/app/output")
	v.SetDefault("port", "8090")
	v.SetDefault("api_key", "")
	v.SetDefault("worker_count", defaultWorkerCount)
	v.SetDefault("max_queue_size", defaultMaxQueueSize)
	v.SetDefault("max_upload_bytes", defaultMaxUploadBytes)
	v.SetDefault("job_ttl", defaultJobTTL)
	v.SetDefault("pdf_preflight", true)
	v.SetDefault("watch_settle", defaultWatchSettle)
	v.SetDefault("watch_attempts", defaultWatchAttempts)

	v.SetEnvPrefix("OUTLINER")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		InputDir:  v.GetString("input_dir"),
		OutputDir: v.GetString("output_dir"),

		Port:   v.GetString("port"),
		APIKey: v.GetString("api_key"),

		WorkerCount:  v.GetInt("worker_count"),
		MaxQueueSize: v.GetInt("max_queue_size"),

		MaxUploadBytes: v.GetInt64("max_upload_bytes"),

		JobTTL: v.GetDuration("job_ttl"),

		PDFPreflight: v.GetBool("pdf_preflight"),

		WatchSettle:   v.GetDuration("watch_settle"),
		WatchAttempts: v.GetInt("watch_attempts"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = defaultMaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = defaultJobTTL
	}
	if cfg.WatchSettle <= 0 {
		cfg.WatchSettle = defaultWatchSettle
	}
	if cfg.WatchAttempts <= 0 {
		cfg.WatchAttempts = defaultWatchAttempts
	}

	return cfg, nil
}

// Validate checks the settings needed by batch and watch mode.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("OUTLINER_INPUT_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTLINER_OUTPUT_DIR is required")
	}
	return nil
}

// ValidateServe checks the settings needed by the HTTP server.
func (c Config) ValidateServe() error {
	if c.APIKey == "" {
		return fmt.Errorf("OUTLINER_API_KEY is required")
	}
	if c.Port == "" {
		return fmt.Errorf("OUTLINER_PORT is required")
	}
	return nil
}
