package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Priorities relative to goldmark's built-in parsers (links are 200) and
// the default HTML renderer (1000).
const (
	attributeParserPriority      = 500
	attributeTransformerPriority = 500
	attributeRendererPriority    = 500
)

// KindAttributeList is the node kind of a pending {name=value} annotation.
var KindAttributeList = ast.NewNodeKind("AttributeList")

// AttributeList holds attributes parsed from a {...} annotation until the
// transformer moves them onto the element they annotate.
type AttributeList struct {
	ast.BaseInline
	Segment text.Segment
}

// Kind implements ast.Node.
func (n *AttributeList) Kind() ast.NodeKind {
	return KindAttributeList
}

// Dump implements ast.Node.
func (n *AttributeList) Dump(source []byte, level int) {
	attrs := make(map[string]string, len(n.Attributes()))
	for _, attr := range n.Attributes() {
		attrs[string(attr.Name)] = string(attributeBytes(attr.Value))
	}
	ast.DumpHelper(n, source, level, attrs, nil)
}

// acceptsAttributes reports whether an annotation written directly after
// node attaches to it.
func acceptsAttributes(node ast.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case ast.KindLink, ast.KindAutoLink, ast.KindImage, ast.KindCodeSpan, ast.KindEmphasis:
		return true
	}
	return false
}

// blockTarget returns the block a trailing annotation in parent applies to:
// the paragraph itself, or the list item of a tight list. Nil when parent
// takes no block annotations.
func blockTarget(parent ast.Node) ast.Node {
	switch parent.Kind() {
	case ast.KindParagraph:
		return parent
	case ast.KindTextBlock:
		if item := parent.Parent(); item != nil && item.Kind() == ast.KindListItem {
			return item
		}
	}
	return nil
}

type attributeParser struct{}

// Trigger implements parser.InlineParser.
func (p *attributeParser) Trigger() []byte {
	return []byte{'{'}
}

// Parse implements parser.InlineParser. Emphasis is still a delimiter run
// at this point, so the element an annotation belongs to is settled by the
// transformer. An annotation opening the block stays literal text.
func (p *attributeParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if parent.LastChild() == nil {
		return nil
	}

	line, start := block.Position()
	attrs, ok := parser.ParseAttributes(block)
	if !ok || len(attrs) == 0 {
		block.SetPosition(line, start)
		return nil
	}
	_, end := block.Position()

	node := &AttributeList{Segment: text.NewSegment(start.Start, end.Start)}
	for _, attr := range attrs {
		node.SetAttribute(attr.Name, attributeBytes(attr.Value))
	}
	return node
}

type attributeTransformer struct{}

// Transform implements parser.ASTTransformer. An annotation directly after
// a link, image, code span or emphasis moves onto that element. One that
// ends a paragraph or list item after other content moves onto the block,
// and the whitespace before it is dropped. Any other annotation reverts to
// literal text. Names the target already carries are kept.
func (t *attributeTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var lists []*AttributeList
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if list, ok := n.(*AttributeList); ok {
				lists = append(lists, list)
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})

	source := reader.Source()
	for _, list := range lists {
		parent := list.Parent()
		prev := list.PreviousSibling()

		var target ast.Node
		switch {
		case acceptsAttributes(prev):
			target = prev
		case list.NextSibling() == nil:
			target = blockTarget(parent)
			if target != nil {
				if txt, ok := prev.(*ast.Text); ok {
					txt.Segment = txt.Segment.TrimRightSpace(source)
				}
			}
		}

		if target == nil {
			parent.ReplaceChild(parent, list, ast.NewTextSegment(list.Segment))
			continue
		}
		for _, attr := range list.Attributes() {
			if _, exists := target.Attribute(attr.Name); !exists {
				target.SetAttribute(attr.Name, attr.Value)
			}
		}
		parent.RemoveChild(parent, list)
	}
}

type attributeRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer. Annotations left in the
// tree produce no output.
func (r *attributeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAttributeList, func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		return ast.WalkSkipChildren, nil
	})
}

type attributeExtension struct{}

// Extend implements goldmark.Extender.
func (e *attributeExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&attributeParser{}, attributeParserPriority)),
		parser.WithASTTransformers(util.Prioritized(&attributeTransformer{}, attributeTransformerPriority)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&attributeRenderer{}, attributeRendererPriority)),
	)
}

// Attributes enables {name=value} annotations on links, images, code spans
// and emphasis, e.g. [docs](https://example.com){target=new}, and trailing
// annotations on paragraphs and list items, e.g. "Intro text {.lead}".
var Attributes goldmark.Extender = &attributeExtension{}
