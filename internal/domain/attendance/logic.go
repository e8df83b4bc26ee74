package attendance

import (
	"fmt"
	"time"
)

// FormatWorked renders elapsed time the way the dashboard displays it:
// whole hours once at least an hour has passed, whole minutes below that.
// The count is truncated before formatting, so the decimals are always .00.
func FormatWorked(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d >= time.Hour {
		hours := int(d / time.Hour)
		return fmt.Sprintf("%.2f hrs", float64(hours))
	}
	mins := int(d / time.Minute)
	return fmt.Sprintf("%.2f mins", float64(mins))
}
