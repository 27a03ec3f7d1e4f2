// Package preflight provides readiness checks for the upstream APIs and the
// output location a build depends on.
//
// The CLI "weeklyschedule check" command runs RunAll and renders each
// Result. Checks never modify state: the output check walks up to the
// nearest existing ancestor of the artifact directory, since a build creates
// missing directories itself.
package preflight
