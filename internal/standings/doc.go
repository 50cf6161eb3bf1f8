// Package standings builds the team-indexed composite table: one row per
// canonical team with each source's rank, the mean of the composite sources
// rounded to a tenth, and a min-method rank of that mean.
package standings
