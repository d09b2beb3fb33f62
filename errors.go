package mdhtml

import "github.com/alnah/go-mdhtml/internal/pipeline"

// Sentinel errors for library operations.
var (
	ErrHTMLConversion        = pipeline.ErrHTMLConversion
	ErrInvalidHighlightStyle = pipeline.ErrInvalidHighlightStyle
)
