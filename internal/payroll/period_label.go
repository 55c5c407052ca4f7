package payroll

import (
	"fmt"
	"time"
)

// FormatPeriodLabel membuat label periode yang enak dibaca:
// satu bulan penuh -> "Feb 1–28, 2026"; lintas bulan -> "Jan 25 – Feb 24, 2026";
// lintas tahun menyertakan kedua tahun.
func FormatPeriodLabel(start, end time.Time) string {
	switch {
	case start.Year() == end.Year() && start.Month() == end.Month():
		return fmt.Sprintf("%s %d–%d, %d", start.Format("Jan"), start.Day(), end.Day(), start.Year())
	case start.Year() == end.Year():
		return fmt.Sprintf("%s %d – %s %d, %d",
			start.Format("Jan"), start.Day(), end.Format("Jan"), end.Day(), end.Year())
	default:
		return fmt.Sprintf("%s %d, %d – %s %d, %d",
			start.Format("Jan"), start.Day(), start.Year(), end.Format("Jan"), end.Day(), end.Year())
	}
}
