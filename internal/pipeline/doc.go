// Package pipeline implements the Markdown-to-HTML rendering pipeline.
//
// Rendering runs in two stages:
//   - Markdown to HTML conversion via Goldmark (Engine), with raw HTML
//     passthrough, {name=value} attribute annotations, and link hardening
//     installed in the engine's rule table
//   - Definition shortcode expansion over the produced HTML
//     (ExpandDefinitions)
//
// Link hardening follows an override-and-delegate protocol: the rule
// registered for a link kind is looked up, wrapped by HardenLinks, and the
// wrapper is installed in its place. The wrapper only adds attributes and
// always hands the node back to the rule it replaced.
package pipeline
