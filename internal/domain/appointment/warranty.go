package appointment

import "time"

// ComputeWarrantyUntil adds calendar months to the completion time.
// Month-end dates clamp to the last day of the target month
// (Jan 31 + 1 month = Feb 28/29). Returns nil when months <= 0.
func ComputeWarrantyUntil(completedAt time.Time, months int) *time.Time {
	if months <= 0 {
		return nil
	}

	until := AddMonthsClamped(completedAt, months)
	return &until
}

func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	// day 1 never overflows, so this only moves year/month
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := daysIn(first.Year(), first.Month(), t.Location())
	if d > last {
		d = last
	}

	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
