package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/doxadoc/internal/render"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "WORKER_COUNT", "MAX_QUEUE_SIZE", "JOB_TTL", "DOC_TITLE", "DOC_TYPEDEFS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.JobTTL)
	}
	if cfg.Render.Title != "Index" || cfg.Render.Typedefs {
		t.Errorf("expected default render options, got %+v", cfg.Render)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("MAX_CONCURRENT_PARSE", "3")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("DOC_TITLE", "libnet")
	t.Setenv("DOC_UNIONS", "true")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected clamped worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.MaxConcurrentParse != 3 {
		t.Errorf("expected 3, got %d", cfg.MaxConcurrentParse)
	}
	if cfg.JobTTL != 90*time.Second {
		t.Errorf("expected 90s, got %s", cfg.JobTTL)
	}
	if cfg.Render.Title != "libnet" || !cfg.Render.Unions {
		t.Errorf("expected env render options, got %+v", cfg.Render)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("expected error without API key")
	}
	if err := (Config{DoxadocAPIKey: "k"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadRenderFile(t *testing.T) {
	t.Setenv("LIB_NAME", "libnet")
	path := filepath.Join(t.TempDir(), "doc.yaml")
	data := "title: ${LIB_NAME}\ntypedefs: true\ntoc_levels: 2\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadRenderFile(path, render.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Title != "libnet" {
		t.Errorf("expected expanded title, got %q", opts.Title)
	}
	if !opts.Typedefs || opts.TOCLevels != 2 {
		t.Errorf("expected overlay, got %+v", opts)
	}
	if opts.SourceHighlighter != "coderay" {
		t.Errorf("expected base highlighter kept, got %q", opts.SourceHighlighter)
	}
}

func TestLoadRenderFile_Errors(t *testing.T) {
	if _, err := LoadRenderFile(filepath.Join(t.TempDir(), "missing.yaml"), render.DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("toc_levels: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRenderFile(path, render.DefaultOptions()); err == nil {
		t.Error("expected error for zero toc_levels")
	}
}
