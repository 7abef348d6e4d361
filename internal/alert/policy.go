// Package alert implements the license expiry alerting pipeline: a window
// policy, a store scanner, a notification dispatcher and the daily runner
// that drives them.
package alert

import "time"

// WindowRange returns the half-open interval [now+d days, now+d+1 days).
// A license whose expiry date falls inside it expires in exactly d whole
// days from now.
func WindowRange(now time.Time, leadDays int) (start, end time.Time) {
	start = now.AddDate(0, 0, leadDays)
	end = now.AddDate(0, 0, leadDays+1)
	return start, end
}

// matchingLeadDays returns every configured lead time whose window contains
// the expiry date. Windows for distinct lead times are disjoint, but a
// delayed scan can still legitimately match more than one configured value,
// so all matches are returned in configuration order.
func matchingLeadDays(now, expiry time.Time, leadDays []int) []int {
	var matched []int
	for _, d := range leadDays {
		start, end := WindowRange(now, d)
		if !expiry.Before(start) && expiry.Before(end) {
			matched = append(matched, d)
		}
	}
	return matched
}

// MatchDate is the calendar day used in dedup marker keys.
func MatchDate(now time.Time) string {
	return now.Format("2006-01-02")
}
