package update

import (
	"fmt"
	"time"
)

// formatUntil renders a countdown like "2h05m" or "12m".
func formatUntil(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Minute) / time.Minute)
	if total >= 60 {
		return fmt.Sprintf("%dh%02dm", total/60, total%60)
	}
	return fmt.Sprintf("%dm", total)
}
