package window

import (
	"strings"
	"time"

	"weeklyschedule/internal/tvmaze"
)

// zeroDate is the placeholder TVmaze uses for an unknown airdate.
const zeroDate = "0000-00-00"

// Today returns the UTC calendar date containing now.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Start returns the first day of an n-day window ending on today.
func Start(n int, today time.Time) time.Time {
	return Today(today).AddDate(0, 0, -(n - 1))
}

// EffectiveDate resolves the calendar date an episode aired. The explicit
// airdate wins unless it is empty, unparseable, or the zero placeholder;
// otherwise the date part of the airstamp is used.
func EffectiveDate(ep tvmaze.Episode) (time.Time, bool) {
	if airdate := strings.TrimSpace(ep.Airdate); airdate != "" && airdate != zeroDate {
		if d, ok := parseDate(airdate); ok {
			return d, true
		}
	}
	stamp := strings.TrimSpace(ep.Airstamp)
	if len(stamp) < len(tvmaze.DateLayout) {
		return time.Time{}, false
	}
	return parseDate(stamp[:len(tvmaze.DateLayout)])
}

func parseDate(value string) (time.Time, bool) {
	if value == zeroDate {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(tvmaze.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Contains reports whether date falls within the n-day window ending on
// today, inclusive at both ends.
func Contains(date time.Time, n int, today time.Time) bool {
	if n < 1 {
		return false
	}
	end := Today(today)
	if date.After(end) {
		return false
	}
	return !date.Before(Start(n, end))
}

// FilterRecent keeps the episodes whose effective date lies in the n-day
// window ending on today. Input order is preserved. n < 1 keeps nothing.
func FilterRecent(episodes []tvmaze.Episode, n int, today time.Time) []tvmaze.Episode {
	if n < 1 {
		return nil
	}
	kept := make([]tvmaze.Episode, 0, len(episodes))
	for _, ep := range episodes {
		date, ok := EffectiveDate(ep)
		if !ok || !Contains(date, n, today) {
			continue
		}
		kept = append(kept, ep)
	}
	return kept
}
