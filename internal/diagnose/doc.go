// Package diagnose finds raw team names that do not resolve, proposes the
// closest canonical team for each, and reports spelling collisions.
//
// A proposal is marked auto when its score reaches the auto-accept
// threshold, it is the single best candidate, and its key is not part of a
// collision. Everything else is marked review and waits for a person.
package diagnose
