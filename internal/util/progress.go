package util

import (
	"fmt"
	"time"
)

// ProgressPercentage returns the integer percentage of done over total,
// clamped to [0, 100]. A non-positive total reports 0.
func ProgressPercentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	pct := done * 100 / total
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatDuration renders a duration as HH:MM:SS for run summaries.
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
