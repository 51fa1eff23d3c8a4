package util

import "fmt"

// FormatDurationHMS renders milliseconds as H:MM:SS, hours unpadded.
// 30000 -> "0:00:30", 3723000 -> "1:02:03".
func FormatDurationHMS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
