// Package output renders walker events into report and tree documents.
package output

import (
	"iter"

	"github.com/temirov/snapshot/internal/walker"
)

// Renderer consumes walker events and accumulates one document.
type Renderer interface {
	Handle(event walker.Event) error
	Document() string
}

// Render feeds every event into renderer and returns the finished document.
// Rendering stops at the first error returned by the renderer.
func Render(events iter.Seq[walker.Event], renderer Renderer) (string, error) {
	for event := range events {
		if err := renderer.Handle(event); err != nil {
			return "", err
		}
	}
	return renderer.Document(), nil
}
