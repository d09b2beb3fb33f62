package pipeline

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// RenderRule writes the HTML for one node. It is called twice per node,
// once entering and once leaving, like goldmark's renderer.NodeRendererFunc.
type RenderRule func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error)

// RuleTable maps node kinds to the rule that renders them.
// A table belongs to exactly one Engine and is never shared.
type RuleTable struct {
	rules     map[ast.NodeKind]RenderRule
	overrides map[ast.NodeKind]bool
}

// NewRuleTable creates an empty table.
func NewRuleTable() *RuleTable {
	return &RuleTable{
		rules:     make(map[ast.NodeKind]RenderRule),
		overrides: make(map[ast.NodeKind]bool),
	}
}

// newDefaultRuleTable seeds a table with goldmark's HTML renderer rules,
// built with the same options the engine renders with.
func newDefaultRuleTable(opts ...html.Option) *RuleTable {
	t := NewRuleTable()
	html.NewRenderer(opts...).RegisterFuncs(&ruleRecorder{table: t})
	return t
}

// ruleRecorder captures registrations into a RuleTable without marking
// them as overrides.
type ruleRecorder struct {
	table *RuleTable
}

// Register implements renderer.NodeRendererFuncRegisterer.
func (r *ruleRecorder) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	r.table.rules[kind] = RenderRule(fn)
}

// Lookup returns the rule currently registered for kind, or nil.
func (t *RuleTable) Lookup(kind ast.NodeKind) RenderRule {
	return t.rules[kind]
}

// Set installs rule for kind. Installed rules take precedence over the
// engine's built-in renderers.
func (t *RuleTable) Set(kind ast.NodeKind, rule RenderRule) {
	t.rules[kind] = rule
	t.overrides[kind] = true
}

// Overrides returns the kinds installed with Set, sorted for stable
// registration order.
func (t *RuleTable) Overrides() []ast.NodeKind {
	kinds := make([]ast.NodeKind, 0, len(t.overrides))
	for k := range t.overrides {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ruleRenderer exposes the overridden rules of a table to goldmark.
type ruleRenderer struct {
	table *RuleTable
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *ruleRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	for _, kind := range r.table.Overrides() {
		reg.Register(kind, renderer.NodeRendererFunc(r.table.Lookup(kind)))
	}
}

var dataPrefix = []byte("data-")

// DefaultLinkRule serializes a link node with its destination, title and
// its attributes in insertion order. Like goldmark's own link renderer it
// writes only names in html.LinkAttributeFilter plus data-*, so
// annotations cannot add event handlers. It is used as the delegate when no
// link rule is registered.
func DefaultLinkRule(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(linkDestination(node, source), true)))
	_ = w.WriteByte('"')
	if link, ok := node.(*ast.Link); ok && link.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(link.Title))
		_ = w.WriteByte('"')
	}
	for _, attr := range node.Attributes() {
		if !html.LinkAttributeFilter.Contains(attr.Name) && !bytes.HasPrefix(attr.Name, dataPrefix) {
			continue
		}
		_ = w.WriteByte(' ')
		_, _ = w.Write(attr.Name)
		_, _ = w.WriteString(`="`)
		_, _ = w.Write(util.EscapeHTML(attributeBytes(attr.Value)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

// linkDestination returns the raw href of a link or autolink node.
func linkDestination(node ast.Node, source []byte) []byte {
	switch n := node.(type) {
	case *ast.Link:
		return n.Destination
	case *ast.AutoLink:
		url := n.URL(source)
		if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
			return append([]byte("mailto:"), url...)
		}
		return url
	}
	return nil
}

// attributeBytes converts an attribute value to bytes. Values parsed from
// {name=value} annotations may be numbers or booleans.
func attributeBytes(v any) []byte {
	switch typed := v.(type) {
	case []byte:
		return typed
	case string:
		return []byte(typed)
	case nil:
		return nil
	default:
		return []byte(fmt.Sprint(typed))
	}
}
