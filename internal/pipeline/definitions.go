package pipeline

import (
	"regexp"
	"strings"
)

// definitionPattern matches the shortcode
//
//	[definition: <definition>]<term>[/definition]
//
// The colon must follow "definition" directly; one optional whitespace or
// '+' may follow the colon. Neither part spans a line break, '\r' included.
var definitionPattern = regexp.MustCompile(`\[definition:[\s+]?(?P<definition>[^\r\n]*?)\](?P<term>[^\r\n]*?)\[/definition\]`)

var (
	definitionGroup = definitionPattern.SubexpIndex("definition")
	termGroup       = definitionPattern.SubexpIndex("term")
)

// attributeEscaper escapes the characters that are special inside a quoted
// HTML attribute value.
var attributeEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// DefinitionExpander defines the contract for definition shortcode expansion.
type DefinitionExpander interface {
	ExpandDefinitions(htmlContent string) string
}

// DefinitionExpansion implements DefinitionExpander.
type DefinitionExpansion struct{}

// ExpandDefinitions implements DefinitionExpander.
func (DefinitionExpansion) ExpandDefinitions(htmlContent string) string {
	return ExpandDefinitions(htmlContent)
}

// ExpandDefinitions replaces every definition shortcode in htmlContent with
// span markup carrying data-term and data-definition attributes, for
// tooltip components. Matches are replaced left to right and replacement
// markup is never scanned again. Text that does not match, including
// malformed shortcodes, is returned as is.
func ExpandDefinitions(htmlContent string) string {
	loc := definitionPattern.FindStringSubmatchIndex(htmlContent)
	if loc == nil {
		return htmlContent
	}

	var buf strings.Builder
	buf.Grow(len(htmlContent))

	rest := htmlContent
	for loc != nil {
		definition := rest[loc[2*definitionGroup]:loc[2*definitionGroup+1]]
		term := rest[loc[2*termGroup]:loc[2*termGroup+1]]

		buf.WriteString(rest[:loc[0]])
		writeDefinition(&buf, term, definition)

		rest = rest[loc[1]:]
		loc = definitionPattern.FindStringSubmatchIndex(rest)
	}
	buf.WriteString(rest)

	return buf.String()
}

// writeDefinition writes the span for one shortcode. The term is written
// raw as the element text and escaped in the attribute.
func writeDefinition(buf *strings.Builder, term, definition string) {
	buf.WriteString(`<span class="Definition" data-term="`)
	buf.WriteString(attributeEscaper.Replace(term))
	buf.WriteString(`" data-definition="`)
	buf.WriteString(attributeEscaper.Replace(definition))
	buf.WriteString("\">\n        ")
	buf.WriteString(term)
	buf.WriteString("\n      </span>")
}
