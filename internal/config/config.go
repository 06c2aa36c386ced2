package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/doxadoc/internal/render"
)

type Config struct {
	Port string

	// Auth
	DoxadocAPIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentParse int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Document defaults
	Render render.Options
}

func Load() Config {
	opts := render.DefaultOptions()
	opts.Title = envOr("DOC_TITLE", opts.Title)
	opts.TOCLevels = envInt("DOC_TOC_LEVELS", opts.TOCLevels)
	opts.Typedefs = envBool("DOC_TYPEDEFS", false)
	opts.Unions = envBool("DOC_UNIONS", false)

	cfg := Config{
		Port: envOr("PORT", "8090"),

		DoxadocAPIKey: os.Getenv("DOXADOC_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentParse: envInt("MAX_CONCURRENT_PARSE", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		Render: opts,
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentParse <= 0 {
		cfg.MaxConcurrentParse = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.Render.TOCLevels <= 0 {
		cfg.Render.TOCLevels = 4
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DoxadocAPIKey == "" {
		return fmt.Errorf("DOXADOC_API_KEY is required")
	}
	return nil
}

// LoadRenderFile overlays the YAML file at path onto base. Keys missing from
// the file keep their base value; ${VAR} references are expanded first.
func LoadRenderFile(path string, base render.Options) (render.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read render config: %w", err)
	}
	opts := base
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &opts); err != nil {
		return base, fmt.Errorf("parse render config %s: %w", path, err)
	}
	if opts.TOCLevels <= 0 {
		return base, fmt.Errorf("parse render config %s: toc_levels must be positive, got %d", path, opts.TOCLevels)
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
