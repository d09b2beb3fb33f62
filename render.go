package mdhtml

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdhtml/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter      = (*pipeline.Engine)(nil)
	_ pipeline.DefinitionExpander = pipeline.DefinitionExpansion{}
)

// Renderer runs the Markdown-to-HTML pipeline. It holds configuration only:
// every call builds its own engine, so a Renderer is safe for concurrent use.
type Renderer struct {
	engine     pipeline.EngineConfig
	standalone bool
	title      string
	expander   pipeline.DefinitionExpander
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHardWraps renders newlines inside paragraphs as <br>.
func WithHardWraps() Option {
	return func(r *Renderer) {
		r.engine.HardWraps = true
	}
}

// WithXHTML renders void elements as self-closing tags.
func WithXHTML() Option {
	return func(r *Renderer) {
		r.engine.XHTML = true
	}
}

// WithLinkify turns bare URLs into links. Linkified URLs are hardened like
// any other link.
func WithLinkify() Option {
	return func(r *Renderer) {
		r.engine.Linkify = true
	}
}

// WithTaskList enables GFM task list items.
func WithTaskList() Option {
	return func(r *Renderer) {
		r.engine.TaskList = true
	}
}

// WithFootnotes enables [^1] footnotes.
func WithFootnotes() Option {
	return func(r *Renderer) {
		r.engine.Footnotes = true
	}
}

// WithHighlighting highlights fenced code blocks with the named chroma
// style, emitting CSS classes.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		r.engine.HighlightStyle = style
	}
}

// WithStandalone wraps the output in a complete HTML5 document.
func WithStandalone(title string) Option {
	return func(r *Renderer) {
		r.standalone = true
		r.title = title
	}
}

// NewRenderer creates a Renderer. Without options it renders exactly like
// Render. Returns ErrInvalidHighlightStyle for an unknown chroma style.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{expander: pipeline.DefinitionExpansion{}}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.engine.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Render converts markdown to HTML, hardens links, and expands definition
// shortcodes. Empty input yields empty output.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, markdown string) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", fmt.Errorf("internal error: %v", rec)
		}
	}()

	if markdown == "" {
		return "", nil
	}

	htmlContent, err := pipeline.NewEngine(r.engine).Convert(ctx, markdown)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	htmlContent = r.expander.ExpandDefinitions(htmlContent)

	if r.standalone {
		htmlContent = pipeline.WrapDocument(htmlContent, r.title)
	}
	return htmlContent, nil
}

// defaultRenderer has no options and cannot fail validation.
var defaultRenderer = &Renderer{expander: pipeline.DefinitionExpansion{}}

// Render converts markdown to an HTML fragment with the default
// configuration. It never fails: empty input, or any internal failure,
// yields "".
func Render(markdown string) string {
	out, err := defaultRenderer.Render(context.Background(), markdown)
	if err != nil {
		return ""
	}
	return out
}

// RenderValue is Render for untyped input. Only a string or a non-nil
// *string is rendered; nil and every other type yield "".
func RenderValue(input any) string {
	switch v := input.(type) {
	case string:
		return Render(v)
	case *string:
		if v == nil {
			return ""
		}
		return Render(*v)
	default:
		return ""
	}
}

// ExpandDefinitions replaces [definition: <definition>]<term>[/definition]
// shortcodes in already rendered HTML with tooltip span markup.
func ExpandDefinitions(htmlContent string) string {
	return pipeline.ExpandDefinitions(htmlContent)
}
