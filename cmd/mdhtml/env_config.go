package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdhtml/internal/config"
)

// envPrefix namespaces every environment variable read by mdhtml.
const envPrefix = "MDHTML_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // MDHTML_CONFIG: config file name or path
	InputDir   string // MDHTML_INPUT_DIR: default input directory
	OutputDir  string // MDHTML_OUTPUT_DIR: default output directory
	Highlight  string // MDHTML_HIGHLIGHT: chroma style, enables highlighting
	Title      string // MDHTML_TITLE: document title
	Workers    int    // MDHTML_WORKERS: parallel workers
}

// knownEnvVars lists valid MDHTML_* environment variables.
var knownEnvVars = map[string]bool{
	"MDHTML_CONFIG":     true,
	"MDHTML_INPUT_DIR":  true,
	"MDHTML_OUTPUT_DIR": true,
	"MDHTML_HIGHLIGHT":  true,
	"MDHTML_TITLE":      true,
	"MDHTML_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable or non-positive MDHTML_WORKERS is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDHTML_CONFIG"),
		InputDir:   os.Getenv("MDHTML_INPUT_DIR"),
		OutputDir:  os.Getenv("MDHTML_OUTPUT_DIR"),
		Highlight:  os.Getenv("MDHTML_HIGHLIGHT"),
		Title:      os.Getenv("MDHTML_TITLE"),
	}

	if workers := os.Getenv("MDHTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized MDHTML_* variable,
// catching typos like MDHTML_OUTPUTDIR.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig fills config values that are still empty from the
// environment. Precedence: CLI flags > env vars > config file > defaults
// (flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Highlight != "" && cfg.Highlight.Style == "" {
		cfg.Highlight.Style = env.Highlight
		cfg.Highlight.Enabled = true
	}
	if env.Title != "" && cfg.Document.Title == "" {
		cfg.Document.Title = env.Title
	}
}
