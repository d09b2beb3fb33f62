package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	mdhtml "github.com/alnah/go-mdhtml"
	"github.com/alnah/go-mdhtml/internal/config"
	"github.com/alnah/go-mdhtml/internal/fileutil"
)

// stdinArg selects stdin as input and stdout as output.
const stdinArg = "-"

// Sentinel errors for CLI operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrNoFiles      = errors.New("no markdown files found")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteHTML    = errors.New("failed to write HTML file")
	ErrBatchFailed  = errors.New("conversion failed")
)

// Renderer is the conversion service used by the CLI.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*mdhtml.Renderer)(nil)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	warnUnknownEnvVars(logger)
	envCfg := loadEnvConfig()

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	renderer, err := mdhtml.NewRenderer(rendererOptions(cfg)...)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg, env)
	if err != nil {
		return err
	}
	if inputPath == stdinArg {
		logger.Debug("rendering stdin")
		return convertStream(ctx, renderer, env.Stdin, env.Stdout)
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	poolSize := resolvePoolSize(workers)
	logger.Debug("starting conversion", "files", len(files), "workers", poolSize)

	results := convertBatch(ctx, renderer, files, poolSize, logger)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// loadConfig loads the config named by the flag, else by MDHTML_CONFIG,
// else returns the default configuration.
func loadConfig(flagConfig, envConfig string) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envConfig
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		err = fmt.Errorf("loading config: %w", err)
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, &configNotFoundError{name: name, err: err}
		}
		return nil, err
	}
	return cfg, nil
}

// configNotFoundError records the config name that failed to resolve.
type configNotFoundError struct {
	name string
	err  error
}

func (e *configNotFoundError) Error() string { return e.err.Error() }
func (e *configNotFoundError) Unwrap() error { return e.err }

// mergeFlags merges CLI flags into config. Flags only ever enable features,
// so a false boolean flag leaves the config value alone.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	md := &cfg.Markdown
	md.HardWraps = md.HardWraps || flags.markdown.hardWraps
	md.XHTML = md.XHTML || flags.markdown.xhtml
	md.Linkify = md.Linkify || flags.markdown.linkify
	md.TaskList = md.TaskList || flags.markdown.taskList
	md.Footnotes = md.Footnotes || flags.markdown.footnotes

	if flags.highlight != "" {
		cfg.Highlight.Enabled = true
		cfg.Highlight.Style = flags.highlight
	}

	if flags.document.standalone {
		cfg.Document.Standalone = true
	}
	if flags.document.title != "" {
		cfg.Document.Standalone = true
		cfg.Document.Title = flags.document.title
	}
}

// rendererOptions translates config into mdhtml options.
func rendererOptions(cfg *config.Config) []mdhtml.Option {
	var opts []mdhtml.Option

	if cfg.Markdown.HardWraps {
		opts = append(opts, mdhtml.WithHardWraps())
	}
	if cfg.Markdown.XHTML {
		opts = append(opts, mdhtml.WithXHTML())
	}
	if cfg.Markdown.Linkify {
		opts = append(opts, mdhtml.WithLinkify())
	}
	if cfg.Markdown.TaskList {
		opts = append(opts, mdhtml.WithTaskList())
	}
	if cfg.Markdown.Footnotes {
		opts = append(opts, mdhtml.WithFootnotes())
	}
	if cfg.Highlight.Enabled {
		opts = append(opts, mdhtml.WithHighlighting(cfg.Highlight.Style))
	}
	if cfg.Document.Standalone {
		opts = append(opts, mdhtml.WithStandalone(cfg.Document.Title))
	}

	return opts
}

// resolveInputPath picks the input: the positional argument, then
// input.defaultDir, then piped stdin.
func resolveInputPath(args []string, cfg *config.Config, env *Environment) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	if env.StdinIsPipe != nil && env.StdinIsPipe() {
		return stdinArg, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the --output flag, else output.defaultDir.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// convertStream renders all of r and writes the result to w.
func convertStream(ctx context.Context, renderer Renderer, r io.Reader, w io.Writer) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
	}

	out, err := renderer.Render(ctx, string(content))
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("%w: stdout: %v", ErrWriteHTML, err)
	}
	return nil
}

// logResult records one conversion at debug level.
func logResult(logger *slog.Logger, r ConversionResult) {
	if r.Err != nil {
		logger.Debug("conversion failed", "input", r.InputPath, "error", r.Err)
		return
	}
	logger.Debug("converted", "input", r.InputPath, "output", r.OutputPath, "duration", r.Duration)
}
