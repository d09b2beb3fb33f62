package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Sentinel errors for HTML conversion.
var (
	ErrHTMLConversion        = errors.New("HTML conversion failed")
	ErrInvalidHighlightStyle = errors.New("unknown highlight style")
)

// ruleRendererPriority places table overrides ahead of goldmark's default
// HTML renderer (1000) and extension renderers.
const ruleRendererPriority = 100

// EngineConfig selects optional Markdown features. The zero value renders
// CommonMark with tables, strikethrough, raw HTML and {attr=value}
// annotations.
type EngineConfig struct {
	HardWraps      bool   // Treat newlines as <br>
	XHTML          bool   // Self-closing tags
	Linkify        bool   // Bare URLs become links
	TaskList       bool   // - [ ] / - [x] items
	Footnotes      bool   // [^1] footnotes
	HighlightStyle string // Chroma style for fenced code, empty = off
}

// Validate checks that the highlight style exists.
func (c EngineConfig) Validate() error {
	if c.HighlightStyle == "" {
		return nil
	}
	if !slices.Contains(styles.Names(), c.HighlightStyle) {
		return fmt.Errorf("%w: %q", ErrInvalidHighlightStyle, c.HighlightStyle)
	}
	return nil
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	Convert(ctx context.Context, content string) (string, error)
}

// Engine converts Markdown to an HTML fragment using goldmark. Its rule
// table is private to the instance: build a new Engine per conversion and
// overrides never leak between calls.
type Engine struct {
	md    goldmark.Markdown
	rules *RuleTable
}

// htmlOption is satisfied by goldmark's html renderer options, which apply
// both to the engine and to the default rules recorded in the table.
type htmlOption interface {
	renderer.Option
	html.Option
}

// NewEngine creates an Engine with raw HTML passthrough, the attribute
// extension and link hardening installed. Call cfg.Validate first when the
// config comes from user input; an unknown style falls back to chroma's
// default.
func NewEngine(cfg EngineConfig) *Engine {
	var (
		htmlOpts     []html.Option
		rendererOpts []renderer.Option
	)
	add := func(o htmlOption) {
		htmlOpts = append(htmlOpts, o)
		rendererOpts = append(rendererOpts, o)
	}

	add(html.WithUnsafe())
	if cfg.HardWraps {
		add(html.WithHardWraps())
	}
	if cfg.XHTML {
		add(html.WithXHTML())
	}

	rules := newDefaultRuleTable(htmlOpts...)
	installLinkHardening(rules)

	rendererOpts = append(rendererOpts,
		renderer.WithNodeRenderers(util.Prioritized(&ruleRenderer{table: rules}, ruleRendererPriority)),
	)

	md := goldmark.New(
		goldmark.WithExtensions(buildExtensions(cfg)...),
		goldmark.WithParserOptions(parser.WithAttribute()), // # Title {#id .class}
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Engine{md: md, rules: rules}
}

func buildExtensions(cfg EngineConfig) []goldmark.Extender {
	exts := []goldmark.Extender{
		Attributes,
		extension.Table,
		extension.Strikethrough,
	}
	if cfg.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if cfg.TaskList {
		exts = append(exts, extension.TaskList)
	}
	if cfg.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if cfg.HighlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.HighlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // CSS classes instead of inline styles
			),
		))
	}
	return exts
}

// Rules returns the engine's rule table. Changes made after the first
// Convert have no effect.
func (e *Engine) Rules() *RuleTable {
	return e.rules
}

// Convert renders Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context. A panic while parsing or
// rendering is returned as ErrHTMLConversion.
func (e *Engine) Convert(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, rec)}
			}
		}()

		var buf bytes.Buffer
		if err := e.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// documentTemplate wraps a fragment in a complete HTML5 document.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// WrapDocument embeds an HTML fragment in a standalone document.
// An empty title defaults to "Document".
func WrapDocument(fragment, title string) string {
	if title == "" {
		title = "Document"
	}
	return fmt.Sprintf(documentTemplate, util.EscapeHTML([]byte(title)), fragment)
}
