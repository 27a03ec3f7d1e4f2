// Package tvmaze provides the TVmaze schedule client and the show and episode
// model it decodes.
//
// Three schedule variants exist for a calendar date: the national broadcast
// schedule for one country, the global web/streaming schedule, and the full
// schedule. The web and full variants embed the show under "_embedded"; the
// national variant carries it at the top level. Episode.LinkedShow hides the
// difference.
package tvmaze
