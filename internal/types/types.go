// Package types defines the cross-package constants and values shared by the snapshot tools.
package types

// Mode selects which filter rules the walker applies and which renderer consumes its events.
type Mode string

const (
	ModeReport Mode = "report"
	ModeTree   Mode = "tree"

	// ReportFileName is written into the working directory by the report tool.
	ReportFileName = "compiled-report.txt"
	// TreeFileName is written into the working directory by the tree tool.
	TreeFileName = "tree.txt"
)

// ReportStatistics holds the counters accumulated while formatting a report.
type ReportStatistics struct {
	Directories int
	Files       int
	Characters  int
}
