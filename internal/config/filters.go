package config

import (
	"strings"

	"github.com/temirov/snapshot/internal/types"
)

// HiddenMarker prefixes names that are treated as hidden and skipped.
const HiddenMarker = "."

var (
	reportIgnoredDirectoryNames = []string{
		".git", ".vscode", ".idea", "node_modules", "target",
		"build", "dist", "out", "__pycache__", ".metadata",
	}
	reportIgnoredFileNames = []string{
		".gitignore", ".env", ".env.local", ".env.production",
		".classpath", ".project", ".settings", "Thumbs.db",
		"Desktop.ini", ".DS_Store", types.ReportFileName,
	}
	reportIncludedExtensions = []string{
		".java", ".yml", ".yaml", ".properties", ".xml",
		".sql", ".txt", ".md", ".json", ".html", ".css", ".js",
	}
	reportSpecificFiles = []string{
		"pom.xml", "build.gradle", "package.json", "README.md",
		"Dockerfile", "docker-compose.yml", "Makefile", "package-lock.json",
	}

	treeIgnoredDirectoryNames = []string{
		".git", ".vscode", ".idea", "target", "node_modules", "dist", "build",
	}
	treeIgnoredFileNames = []string{
		".DS_Store", types.TreeFileName,
	}
	treeIgnoredExtensions = []string{
		".class", ".log", ".iml", ".lock", ".tmp",
	}
)

// NameSet is an immutable set of file or directory names.
type NameSet map[string]struct{}

func newNameSet(names []string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is a member of the set.
func (set NameSet) Contains(name string) bool {
	_, found := set[name]
	return found
}

// FilterRules decides which directories and files a traversal visits.
// A FilterRules value is built once per run and never mutated afterwards.
type FilterRules struct {
	Mode                  types.Mode
	IgnoredDirectoryNames NameSet
	IgnoredFileNames      NameSet
	// IncludedExtensions applies in report mode; keys are lower-case and start with a dot.
	IncludedExtensions NameSet
	// IgnoredExtensions applies in tree mode; matched as case-sensitive name suffixes.
	IgnoredExtensions []string
	// SpecificIncludedFiles applies in report mode only.
	SpecificIncludedFiles NameSet
	HiddenMarker          string
}

// ReportFilterRules returns the compiled-in rules of the report tool.
func ReportFilterRules() FilterRules {
	return FilterRules{
		Mode:                  types.ModeReport,
		IgnoredDirectoryNames: newNameSet(reportIgnoredDirectoryNames),
		IgnoredFileNames:      newNameSet(reportIgnoredFileNames),
		IncludedExtensions:    newNameSet(reportIncludedExtensions),
		SpecificIncludedFiles: newNameSet(reportSpecificFiles),
		HiddenMarker:          HiddenMarker,
	}
}

// TreeFilterRules returns the compiled-in rules of the tree tool.
func TreeFilterRules() FilterRules {
	return FilterRules{
		Mode:                  types.ModeTree,
		IgnoredDirectoryNames: newNameSet(treeIgnoredDirectoryNames),
		IgnoredFileNames:      newNameSet(treeIgnoredFileNames),
		IgnoredExtensions:     append([]string(nil), treeIgnoredExtensions...),
		HiddenMarker:          HiddenMarker,
	}
}

// FilterRulesForMode returns the compiled-in rules for mode.
func FilterRulesForMode(mode types.Mode) FilterRules {
	if mode == types.ModeTree {
		return TreeFilterRules()
	}
	return ReportFilterRules()
}

func (rules FilterRules) isHidden(name string) bool {
	return rules.HiddenMarker != "" && strings.HasPrefix(name, rules.HiddenMarker)
}

// AllowDirectory reports whether a non-root directory named name is descended into.
func (rules FilterRules) AllowDirectory(name string) bool {
	if rules.IgnoredDirectoryNames.Contains(name) {
		return false
	}
	return !rules.isHidden(name)
}

// AllowFile reports whether a file named name is visited.
// Ignore-by-name is evaluated first and wins over every inclusion rule.
func (rules FilterRules) AllowFile(name string) bool {
	if rules.IgnoredFileNames.Contains(name) {
		return false
	}
	if rules.Mode == types.ModeTree {
		for _, extension := range rules.IgnoredExtensions {
			if strings.HasSuffix(name, extension) {
				return false
			}
		}
		return true
	}
	if rules.isHidden(name) {
		return false
	}
	if rules.SpecificIncludedFiles.Contains(name) {
		return true
	}
	extension := FileExtension(name)
	if extension == "" {
		return false
	}
	return rules.IncludedExtensions.Contains(extension)
}

// FileExtension returns the lower-cased suffix of name starting at its last dot.
// Names without a dot, or whose only dot is the first character, have no extension.
func FileExtension(name string) string {
	dotIndex := strings.LastIndex(name, ".")
	if dotIndex <= 0 {
		return ""
	}
	return strings.ToLower(name[dotIndex:])
}
