package testutil

import (
	"fmt"

	"igpages/internal/archive"
)

// RenderCall records one Render invocation.
type RenderCall struct {
	Kind string
	Data map[string]any
}

// MockRenderer is an archive.Renderer that records calls and returns
// deterministic placeholder bytes.
type MockRenderer struct {
	Calls        []RenderCall
	missingKinds map[string]bool
}

// NewMockRenderer creates a new mock renderer.
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{missingKinds: make(map[string]bool)}
}

// RemoveKind makes Render report a missing template for the given page kind.
func (r *MockRenderer) RemoveKind(kind string) {
	r.missingKinds[kind] = true
}

func (r *MockRenderer) Render(kind string, data map[string]any) ([]byte, error) {
	if r.missingKinds[kind] {
		return nil, fmt.Errorf("page kind %q: %w", kind, archive.ErrTemplateNotFound)
	}
	r.Calls = append(r.Calls, RenderCall{Kind: kind, Data: data})
	return []byte(fmt.Sprintf("rendered %s\n", kind)), nil
}

// CallsFor returns the recorded calls for one page kind.
func (r *MockRenderer) CallsFor(kind string) []RenderCall {
	var calls []RenderCall
	for _, c := range r.Calls {
		if c.Kind == kind {
			calls = append(calls, c)
		}
	}
	return calls
}

// Compile-time check that MockRenderer implements archive.Renderer
var _ archive.Renderer = (*MockRenderer)(nil)
