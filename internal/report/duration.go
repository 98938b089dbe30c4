package report

import "fmt"

// FormatDuration renders milliseconds as "12.3s", or "2m 5s" above one minute.
func FormatDuration(millis uint64) string {
	seconds := millis / 1000
	if seconds > 60 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%d.%ds", seconds, (millis%1000)/100)
}
