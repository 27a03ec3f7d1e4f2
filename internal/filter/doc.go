// Package filter decides which shows are excluded from the catalog at
// ingestion time.
//
// A Policy is built from the [filter] configuration section and is pure: the
// same show always yields the same decision. Rules are evaluated in a fixed
// order and Reason reports the first one that matched.
package filter
