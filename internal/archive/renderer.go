package archive

import "errors"

// ErrTemplateNotFound reports that no template exists for a page kind.
// The page assembler treats it as non-fatal and skips that page.
var ErrTemplateNotFound = errors.New("template not found")

// Page kinds the assembler renders.
const (
	KindIndex      = "index"
	KindAccount    = "account"
	KindYear       = "year"
	KindYearTagged = "year-tagged"
	KindHighlight  = "highlight"
	KindFeedMonth  = "feed-month"
)

// Renderer turns a page kind plus its data bundle into document bytes.
// Implementations must return an error wrapping ErrTemplateNotFound when
// no template exists for the kind.
type Renderer interface {
	Render(kind string, data map[string]any) ([]byte, error)
}
