// Package walker traverses a directory tree depth-first and yields filtered visitation events.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/temirov/snapshot/internal/config"
	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

const (
	// errorAbsolutePathFormat is used when the root cannot be made absolute.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorStatRootFormat is used when the root exists but cannot be inspected.
	errorStatRootFormat = "stat failed for '%s': %w"
	// warningReadDirectoryFormat is reported when a directory cannot be listed.
	warningReadDirectoryFormat = "Warning: unable to list directory %s: %v"
)

var (
	// ErrRootNotFound is returned by New when the root path does not exist.
	ErrRootNotFound = errors.New("path does not exist")
	// ErrInvalidEncoding is attached to file events whose content is not UTF-8 text.
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")
)

// Options configures a traversal.
type Options struct {
	Rules config.FilterRules
	// Warn receives recoverable problems such as unlistable directories.
	Warn func(message string)
}

// Walker produces the events of one root directory.
type Walker struct {
	root            string
	rootIsDirectory bool
	options         Options
}

type pendingEntry struct {
	kind  EventKind
	path  string
	name  string
	depth int
	last  bool
}

// New validates root and returns a Walker over it.
func New(root string, options Options) (*Walker, error) {
	absoluteRoot, absolutePathError := filepath.Abs(root)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, root, absolutePathError)
	}
	cleanRoot := filepath.Clean(absoluteRoot)
	rootInfo, statError := os.Stat(cleanRoot)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf(errorStatRootFormat, root, statError)
	}
	if options.Warn == nil {
		options.Warn = func(string) {}
	}
	return &Walker{root: cleanRoot, rootIsDirectory: rootInfo.IsDir(), options: options}, nil
}

// Root returns the absolute root path.
func (walker *Walker) Root() string {
	return walker.root
}

// Events returns a lazy depth-first sequence of events. Every call starts a fresh traversal.
func (walker *Walker) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		stack := []pendingEntry{{
			kind:  EventEnterDir,
			path:  walker.root,
			name:  filepath.Base(walker.root),
			depth: 0,
			last:  true,
		}}
		for len(stack) > 0 {
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			event := Event{
				Kind:         entry.kind,
				Path:         entry.path,
				RelativePath: utils.RelativePathOrSelf(entry.path, walker.root),
				Name:         entry.name,
				Depth:        entry.depth,
				Last:         entry.last,
			}

			switch entry.kind {
			case EventEnterDir:
				if !yield(event) {
					return
				}
				leave := entry
				leave.kind = EventLeaveDir
				stack = append(stack, leave)
				if entry.depth == 0 && !walker.rootIsDirectory {
					continue
				}
				children := walker.listChildren(entry.path, entry.depth+1)
				for index := len(children) - 1; index >= 0; index-- {
					stack = append(stack, children[index])
				}
			case EventVisitFile:
				if walker.options.Rules.Mode == types.ModeReport {
					event.Content, event.ReadErr = readText(entry.path)
				}
				if !yield(event) {
					return
				}
			case EventLeaveDir:
				if !yield(event) {
					return
				}
			}
		}
	}
}

// listChildren returns the visible children of directoryPath in display order.
// A directory that cannot be listed has no children.
func (walker *Walker) listChildren(directoryPath string, depth int) []pendingEntry {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		walker.options.Warn(fmt.Sprintf(warningReadDirectoryFormat, directoryPath, readDirectoryError))
		return nil
	}

	rules := walker.options.Rules
	children := make([]pendingEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		childPath := filepath.Join(directoryPath, name)
		if walker.isDirectory(directoryEntry, childPath) {
			if rules.AllowDirectory(name) {
				children = append(children, pendingEntry{kind: EventEnterDir, path: childPath, name: name, depth: depth})
			}
			continue
		}
		if rules.AllowFile(name) {
			children = append(children, pendingEntry{kind: EventVisitFile, path: childPath, name: name, depth: depth})
		}
	}

	SortEntries(children, func(entry pendingEntry) (string, bool) {
		return entry.name, entry.kind == EventEnterDir
	})
	if len(children) > 0 {
		children[len(children)-1].last = true
	}
	return children
}

// isDirectory reports whether a listed entry is descended into. Tree mode follows
// symbolic links to directories; report mode treats every link as a file.
func (walker *Walker) isDirectory(directoryEntry fs.DirEntry, childPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if walker.options.Rules.Mode != types.ModeTree || directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(childPath)
	return statError == nil && targetInfo.IsDir()
}

func readText(path string) (string, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return "", readError
	}
	if !utf8.Valid(content) {
		return "", ErrInvalidEncoding
	}
	return string(content), nil
}

// SortEntries orders items so that directories precede files and names compare
// case-insensitively within each group. The raw name breaks ties.
func SortEntries[T any](items []T, describe func(T) (name string, isDirectory bool)) {
	sort.SliceStable(items, func(leftIndex, rightIndex int) bool {
		leftName, leftIsDirectory := describe(items[leftIndex])
		rightName, rightIsDirectory := describe(items[rightIndex])
		if leftIsDirectory != rightIsDirectory {
			return leftIsDirectory
		}
		leftFolded := strings.ToLower(leftName)
		rightFolded := strings.ToLower(rightName)
		if leftFolded != rightFolded {
			return leftFolded < rightFolded
		}
		return leftName < rightName
	})
}
