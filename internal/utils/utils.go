// Package utils contains general helper functions used across the snapshot tools.
package utils

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// LocalConfigFileName is the project-level configuration file.
	LocalConfigFileName = ".snapshot.yaml"
	// GlobalConfigDirectoryName is created under the user's home directory.
	GlobalConfigDirectoryName = ".snapshot"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
)

const (
	lineSeparator = "\n"
	sizeStep      = 1024
)

var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// RelativePathOrSelf calculates the relative path from root to fullPath using forward slashes.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(cleanPath)
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return filepath.ToSlash(cleanPath)
	}
	return ToForwardSlashes(relativePath)
}

// ToForwardSlashes rewrites both Windows and host separators as "/".
func ToForwardSlashes(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "\\", "/")
}

// CountLines returns the number of lines in text. A trailing newline does not start a new line.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	count := strings.Count(text, lineSeparator)
	if !strings.HasSuffix(text, lineSeparator) {
		count++
	}
	return count
}

// FormatFileSize renders a byte length with lower-case binary units: 512b, 1.5kb, 10mb.
// Values below ten keep one decimal; a zero decimal is dropped. Negative lengths read as 0b.
func FormatFileSize(bytes int64) string {
	if bytes < sizeStep {
		return strconv.FormatInt(max(bytes, 0), 10) + sizeUnits[0]
	}
	scaled := float64(bytes)
	unit := 0
	for scaled >= sizeStep && unit < len(sizeUnits)-1 {
		scaled /= sizeStep
		unit++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	rendered := strconv.FormatFloat(scaled, 'f', precision, 64)
	return strings.TrimSuffix(rendered, ".0") + sizeUnits[unit]
}
