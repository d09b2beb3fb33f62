package pipeline

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// Attribute values added to links that leave the application.
const (
	LinkTarget = "_blank"
	LinkRel    = "noopener noreferrer"
)

var (
	attrTarget = []byte("target")
	attrRel    = []byte("rel")
)

// redirectPattern matches in-app navigation links, which must stay in the
// current browsing context.
var redirectPattern = regexp.MustCompile(`#/redirect/activity/([^/]+)/?`)

// HardenLinks wraps delegate with a rule that adds target and rel to link
// nodes before delegating. Attributes already present are never replaced.
// If delegate is nil, DefaultLinkRule is used.
func HardenLinks(delegate RenderRule) RenderRule {
	if delegate == nil {
		delegate = DefaultLinkRule
	}

	return func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && !isRedirectWithoutTarget(node, source) {
			setIfBlank(node, attrTarget, LinkTarget)
			setIfBlank(node, attrRel, LinkRel)
		}
		return delegate(w, source, node, entering)
	}
}

// installLinkHardening overrides the link rules of table, delegating to
// whatever was registered before.
func installLinkHardening(table *RuleTable) {
	for _, kind := range []ast.NodeKind{ast.KindLink, ast.KindAutoLink} {
		table.Set(kind, HardenLinks(table.Lookup(kind)))
	}
}

// isRedirectWithoutTarget reports whether node is exempt from hardening.
// Both conditions must hold: the href is an in-app redirect and no target
// was set upstream.
func isRedirectWithoutTarget(node ast.Node, source []byte) bool {
	if _, ok := node.Attribute(attrTarget); ok {
		return false
	}
	return redirectPattern.Match(linkDestination(node, source))
}

// setIfBlank sets name to value when the attribute is missing or empty.
func setIfBlank(node ast.Node, name []byte, value string) {
	if v, ok := node.Attribute(name); ok && len(attributeBytes(v)) > 0 {
		return
	}
	node.SetAttribute(name, []byte(value))
}
