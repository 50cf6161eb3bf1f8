// Package preflight provides readiness checks for the filesystem paths and
// input tables cbbrank depends on.
//
// The CLI "cbbrank check" command runs RunAll and renders each Result; the
// pipeline does not call these checks itself, so a failed check never
// blocks a run the operator chooses to attempt anyway.
package preflight
