// Package merge joins per-source rank tables onto game rows.
//
// Game team and opponent names are resolved to canonical teams and written
// to team_std and opponent_std. Each source is resolved and deduplicated,
// then left-joined twice, once on the team and once on the opponent, into
// Team_<Label> and Opponent_<Label>. Missing ranks carry the explicit
// unrated marker. The output has exactly one row per input row in input
// order, and merging the same inputs twice produces identical tables.
package merge
