// Package mdhtml renders Markdown to HTML for untrusted-link contexts.
//
// # Quick Start
//
// Render a string with the default configuration:
//
//	html := mdhtml.Render("[docs](https://example.com)")
//	// <p><a href="https://example.com" target="_blank" rel="noopener noreferrer">docs</a></p>
//
// Render never fails. Empty input, and RenderValue with anything that is
// not a string, yield "".
//
// # Rendering Pipeline
//
//  1. Markdown to HTML via Goldmark, with raw HTML passthrough, tables,
//     strikethrough and trailing {name=value} attribute annotations
//  2. Link hardening: links get target="_blank" and
//     rel="noopener noreferrer" unless already set. Links to
//     #/redirect/activity/<id>/ without a target are left alone.
//  3. Definition shortcodes become tooltip markup:
//
//	[definition: used to express a greeting]hello[/definition]
//
// becomes
//
//	<span class="Definition" data-term="hello" data-definition="used to express a greeting">
//	        hello
//	      </span>
//
// # Configuration
//
// Use functional options for optional Markdown features:
//
//	r, err := mdhtml.NewRenderer(
//	    mdhtml.WithLinkify(),
//	    mdhtml.WithHighlighting("github"),
//	    mdhtml.WithStandalone("Release notes"),
//	)
//	html, err := r.Render(ctx, markdown)
//
// A Renderer builds a new engine for every call and may be shared between
// goroutines.
package mdhtml
