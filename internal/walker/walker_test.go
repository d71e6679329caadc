package walker_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/temirov/snapshot/internal/config"
	"github.com/temirov/snapshot/internal/walker"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func collect(t *testing.T, root string, rules config.FilterRules, warn func(string)) []walker.Event {
	t.Helper()
	treeWalker, err := walker.New(root, walker.Options{Rules: rules, Warn: warn})
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}
	var events []walker.Event
	for event := range treeWalker.Events() {
		events = append(events, event)
	}
	return events
}

func describe(events []walker.Event) []string {
	described := make([]string, 0, len(events))
	for _, event := range events {
		described = append(described, event.Kind.String()+" "+event.RelativePath)
	}
	return described
}

func TestEventsPreOrderAndPostOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.txt"), "main")
	writeFile(t, filepath.Join(root, "src", "lib", "util.js"), "util")
	writeFile(t, filepath.Join(root, "README.md"), "readme")

	events := collect(t, root, config.ReportFilterRules(), nil)
	expected := []string{
		"enter .",
		"enter src",
		"enter src/lib",
		"file src/lib/util.js",
		"leave src/lib",
		"file src/main.txt",
		"leave src",
		"file README.md",
		"leave .",
	}
	if got := describe(events); !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected events:\n%v\nexpected:\n%v", got, expected)
	}
	if !events[0].IsRoot() || events[0].Depth != 0 {
		t.Fatalf("first event should be the root, got %+v", events[0])
	}
	if events[3].Depth != 3 || events[3].Content != "util" {
		t.Fatalf("unexpected file event %+v", events[3])
	}
}

func TestIgnoredDirectoriesProduceNoEvents(t *testing.T) {
	root := t.TempDir()
	for _, ignored := range []string{"node_modules", "target", ".git", ".hidden", "__pycache__"} {
		writeFile(t, filepath.Join(root, ignored, "index.js"), "ignored")
		writeFile(t, filepath.Join(root, ignored, "nested", "deep.md"), "ignored")
	}
	writeFile(t, filepath.Join(root, "kept.txt"), "kept")

	events := collect(t, root, config.ReportFilterRules(), nil)
	for _, event := range events {
		if strings.Contains(event.RelativePath, "index.js") || strings.Contains(event.RelativePath, "deep.md") {
			t.Fatalf("event from pruned subtree: %+v", event)
		}
		if !event.IsRoot() && event.Kind != walker.EventVisitFile {
			t.Fatalf("pruned directory produced an event: %+v", event)
		}
	}
	if expected := []string{"enter .", "file kept.txt", "leave ."}; !reflect.DeepEqual(describe(events), expected) {
		t.Fatalf("unexpected events %v", describe(events))
	}
}

func TestSiblingOrderingDirectoriesFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "A", "x.txt"), "x")
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	var names []string
	for _, event := range collect(t, root, config.TreeFilterRules(), nil) {
		if event.Depth == 1 && event.Kind != walker.EventLeaveDir {
			names = append(names, event.Name)
		}
	}
	if expected := []string{"A", "a.txt", "b.txt"}; !reflect.DeepEqual(names, expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
}

func TestLastFlagMarksFinalVisibleSibling(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.txt"), "1")
	writeFile(t, filepath.Join(root, "two.txt"), "2")
	writeFile(t, filepath.Join(root, "zzz.log"), "filtered in tree mode")

	lastByName := map[string]bool{}
	for _, event := range collect(t, root, config.TreeFilterRules(), nil) {
		if event.Kind == walker.EventVisitFile {
			lastByName[event.Name] = event.Last
		}
	}
	if expected := map[string]bool{"one.txt": false, "two.txt": true}; !reflect.DeepEqual(lastByName, expected) {
		t.Fatalf("expected %v, got %v", expected, lastByName)
	}
}

func TestEventsRestartFromScratch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "guide.md"), "guide")

	treeWalker, err := walker.New(root, walker.Options{Rules: config.ReportFilterRules()})
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}
	var first, second []string
	for event := range treeWalker.Events() {
		first = append(first, event.Kind.String()+" "+event.RelativePath)
	}
	for event := range treeWalker.Events() {
		second = append(second, event.Kind.String()+" "+event.RelativePath)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("traversals differ:\n%v\n%v", first, second)
	}
}

func TestEventsStopWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")

	treeWalker, err := walker.New(root, walker.Options{Rules: config.ReportFilterRules()})
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}
	seen := 0
	for range treeWalker.Events() {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("expected to stop after 2 events, saw %d", seen)
	}
}

func TestNewRejectsMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	_, err := walker.New(missing, walker.Options{Rules: config.TreeFilterRules()})
	if !errors.Is(err, walker.ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestUnreadableFileCarriesReadError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of permissions")
	}
	root := t.TempDir()
	lockedPath := filepath.Join(root, "locked.txt")
	writeFile(t, lockedPath, "secret")
	if err := os.Chmod(lockedPath, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(lockedPath, 0o644) })

	var fileEvents []walker.Event
	for _, event := range collect(t, root, config.ReportFilterRules(), nil) {
		if event.Kind == walker.EventVisitFile {
			fileEvents = append(fileEvents, event)
		}
	}
	if len(fileEvents) != 1 || fileEvents[0].ReadErr == nil || fileEvents[0].Content != "" {
		t.Fatalf("expected one file event with a read error, got %+v", fileEvents)
	}
}

func TestUnlistableDirectoryHasNoChildren(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can list directories regardless of permissions")
	}
	root := t.TempDir()
	lockedDirectory := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(lockedDirectory, "inside.txt"), "x")
	if err := os.Chmod(lockedDirectory, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	var warnings []string
	events := collect(t, root, config.TreeFilterRules(), func(message string) {
		warnings = append(warnings, message)
	})
	expected := []string{"enter .", "enter locked", "leave locked", "leave ."}
	if got := describe(events); !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected events %v", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestTreeModeDoesNotReadContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), "content")
	for _, event := range collect(t, root, config.TreeFilterRules(), nil) {
		if event.Content != "" || event.ReadErr != nil {
			t.Fatalf("tree mode should not read files: %+v", event)
		}
	}
}

func TestSortEntries(t *testing.T) {
	type entry struct {
		name      string
		directory bool
	}
	entries := []entry{{"b.txt", false}, {"Zeta", true}, {"a.txt", false}, {"alpha", true}, {"B.txt", false}}
	walker.SortEntries(entries, func(item entry) (string, bool) { return item.name, item.directory })
	var names []string
	for _, item := range entries {
		names = append(names, item.name)
	}
	if expected := []string{"alpha", "Zeta", "a.txt", "B.txt", "b.txt"}; !reflect.DeepEqual(names, expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
}

func TestFileRootHasNoChildren(t *testing.T) {
	root := filepath.Join(t.TempDir(), "single.txt")
	writeFile(t, root, "content")
	var warnings []string
	events := collect(t, root, config.TreeFilterRules(), func(message string) { warnings = append(warnings, message) })
	if expected := []string{"enter .", "leave ."}; !reflect.DeepEqual(describe(events), expected) {
		t.Fatalf("expected %v, got %v", expected, describe(events))
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings for a file root, got %v", warnings)
	}
}

func fileEvents(events []walker.Event) []walker.Event {
	var files []walker.Event
	for _, event := range events {
		if event.Kind == walker.EventVisitFile {
			files = append(files, event)
		}
	}
	return files
}

func TestInvalidUTF8FileCarriesEncodingError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "latin1.txt"), "caf\xe9 na\xefve")
	files := fileEvents(collect(t, root, config.ReportFilterRules(), nil))
	if len(files) != 1 {
		t.Fatalf("expected one file event, got %+v", files)
	}
	if !errors.Is(files[0].ReadErr, walker.ErrInvalidEncoding) || files[0].Content != "" {
		t.Fatalf("expected an encoding error without content, got %+v", files[0])
	}
}

func TestDanglingSymlinkCarriesReadError(t *testing.T) {
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(root, "missing.txt"), filepath.Join(root, "broken.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	files := fileEvents(collect(t, root, config.ReportFilterRules(), nil))
	if len(files) != 1 || files[0].Name != "broken.txt" || files[0].ReadErr == nil {
		t.Fatalf("expected one file event with a read error, got %+v", files)
	}
}

func TestSymlinkedDirectoryFollowedOnlyInTreeMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "notes.txt"), "n")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	treeEvents := describe(collect(t, root, config.TreeFilterRules(), nil))
	expectedTree := []string{
		"enter .",
		"enter linked", "file linked/a.txt", "leave linked",
		"enter real", "file real/a.txt", "leave real",
		"file notes.txt",
		"leave .",
	}
	if !reflect.DeepEqual(treeEvents, expectedTree) {
		t.Fatalf("expected %v, got %v", expectedTree, treeEvents)
	}

	reportEvents := describe(collect(t, root, config.ReportFilterRules(), nil))
	expectedReport := []string{
		"enter .",
		"enter real", "file real/a.txt", "leave real",
		"file notes.txt",
		"leave .",
	}
	if !reflect.DeepEqual(reportEvents, expectedReport) {
		t.Fatalf("expected %v, got %v", expectedReport, reportEvents)
	}
}
