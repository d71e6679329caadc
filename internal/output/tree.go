package output

import (
	"strings"

	"github.com/temirov/snapshot/internal/walker"
)

const (
	treeBranchConnector = "|-- "
	treeLastConnector   = "\\-- "
	treeBranchPadding   = "|   "
	treeLastPadding     = "    "
)

// TreeRenderer builds an indented ASCII listing of the walked tree.
type TreeRenderer struct {
	rootName string
	document strings.Builder
	// prefixes holds one continuation segment per open non-root directory.
	prefixes []string
}

// NewTreeRenderer returns a renderer whose first line is rootName.
func NewTreeRenderer(rootName string) *TreeRenderer {
	return &TreeRenderer{rootName: rootName}
}

// Handle appends the line belonging to event.
func (renderer *TreeRenderer) Handle(event walker.Event) error {
	switch event.Kind {
	case walker.EventEnterDir:
		if event.IsRoot() {
			renderer.document.WriteString(renderer.rootName + "\n")
			return nil
		}
		renderer.writeLine(event)
		padding := treeBranchPadding
		if event.Last {
			padding = treeLastPadding
		}
		renderer.prefixes = append(renderer.prefixes, padding)
	case walker.EventVisitFile:
		renderer.writeLine(event)
	case walker.EventLeaveDir:
		if !event.IsRoot() && len(renderer.prefixes) > 0 {
			renderer.prefixes = renderer.prefixes[:len(renderer.prefixes)-1]
		}
	}
	return nil
}

// Document returns the listing built so far.
func (renderer *TreeRenderer) Document() string {
	return renderer.document.String()
}

func (renderer *TreeRenderer) writeLine(event walker.Event) {
	connector := treeBranchConnector
	if event.Last {
		connector = treeLastConnector
	}
	for _, prefix := range renderer.prefixes {
		renderer.document.WriteString(prefix)
	}
	renderer.document.WriteString(connector + event.Name + "\n")
}

var _ Renderer = (*TreeRenderer)(nil)
