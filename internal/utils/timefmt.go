package utils

import (
	"time"
)

// reportTimestampLayout renders weekday, date, time, and zone.
const reportTimestampLayout = "Mon Jan 02 15:04:05 MST 2006"

// FormatReportTimestamp renders the run start time embedded in the report header.
func FormatReportTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(reportTimestampLayout)
}
