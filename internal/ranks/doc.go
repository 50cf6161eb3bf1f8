// Package ranks turns a provider's raw rank table into per-team ranks.
//
// Extract locates the team and rank columns, keeps only the latest
// snapshot_date when the table carries one, and coerces rank cells to
// positive integers; rows that fail coercion are dropped and counted. Resolve
// then maps team names onto canonical teams and collapses duplicates with
// the source's Policy.
package ranks
