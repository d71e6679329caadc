package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
	"github.com/temirov/snapshot/internal/walker"
)

const (
	reportRuleWidth = 80
	entryRuleWidth  = 60

	projectLabel         = "PROJECT: "
	pathLabel            = "PATH: "
	dateLabel            = "DATE: "
	directoryMarker      = "[DIR] "
	fileMarker           = "[FILE] "
	statisticsLabel      = "STATISTICS:"
	directoriesFormat    = "  Directories analyzed: %d\n"
	filesFormat          = "  Files included: %d\n"
	characterCountFormat = "  Total size: %d characters\n"
	readErrorFormat      = "[ERROR: could not read file - %v]"
)

var (
	reportRule = strings.Repeat("=", reportRuleWidth)
	entryRule  = strings.Repeat("-", entryRuleWidth)
)

// ReportRenderer builds the concatenated report of included files.
type ReportRenderer struct {
	rootPath   string
	startedAt  time.Time
	document   strings.Builder
	statistics types.ReportStatistics
	finished   bool
}

// NewReportRenderer returns a renderer for the tree rooted at rootPath, stamped with startedAt.
func NewReportRenderer(rootPath string, startedAt time.Time) *ReportRenderer {
	return &ReportRenderer{rootPath: rootPath, startedAt: startedAt}
}

// Handle appends the section belonging to event.
func (renderer *ReportRenderer) Handle(event walker.Event) error {
	switch event.Kind {
	case walker.EventEnterDir:
		if event.IsRoot() {
			renderer.writeHeader()
			return nil
		}
		renderer.statistics.Directories++
		renderer.document.WriteString("\n" + directoryMarker + event.RelativePath + "/\n")
	case walker.EventVisitFile:
		renderer.statistics.Files++
		renderer.document.WriteString("\n" + fileMarker + event.RelativePath + "\n")
		renderer.document.WriteString(entryRule + "\n")
		if event.ReadErr != nil {
			renderer.document.WriteString(fmt.Sprintf(readErrorFormat, event.ReadErr))
		} else {
			renderer.document.WriteString(event.Content)
		}
		renderer.document.WriteString("\n" + entryRule + "\n")
	case walker.EventLeaveDir:
		if event.IsRoot() && !renderer.finished {
			renderer.writeStatistics()
		}
	}
	return nil
}

// Document returns the report built so far.
func (renderer *ReportRenderer) Document() string {
	return renderer.document.String()
}

// Statistics returns the counters accumulated so far.
func (renderer *ReportRenderer) Statistics() types.ReportStatistics {
	return renderer.statistics
}

func (renderer *ReportRenderer) writeHeader() {
	renderer.document.WriteString(reportRule + "\n")
	renderer.document.WriteString(projectLabel + filepath.Base(renderer.rootPath) + "\n")
	renderer.document.WriteString(pathLabel + renderer.rootPath + "\n")
	renderer.document.WriteString(dateLabel + utils.FormatReportTimestamp(renderer.startedAt) + "\n")
	renderer.document.WriteString(reportRule + "\n\n")
}

// writeStatistics appends the trailing block. The character count covers the
// document as it stood before the block was started.
func (renderer *ReportRenderer) writeStatistics() {
	renderer.statistics.Characters = utf8.RuneCountInString(renderer.document.String())
	renderer.document.WriteString("\n" + reportRule + "\n")
	renderer.document.WriteString(statisticsLabel + "\n")
	renderer.document.WriteString(fmt.Sprintf(directoriesFormat, renderer.statistics.Directories))
	renderer.document.WriteString(fmt.Sprintf(filesFormat, renderer.statistics.Files))
	renderer.document.WriteString(fmt.Sprintf(characterCountFormat, renderer.statistics.Characters))
	renderer.document.WriteString(reportRule + "\n")
	renderer.finished = true
}

var _ Renderer = (*ReportRenderer)(nil)
