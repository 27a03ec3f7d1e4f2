// Package window restricts episodes to a trailing range of calendar dates.
//
// All dates are UTC calendar dates: Today truncates the wall clock to UTC
// midnight and episode dates are parsed as UTC midnights, so comparisons never
// depend on the host time zone.
package window
