// Package alias owns the alias table: the set of canonical team names plus,
// per source, the raw spellings that map onto each of them.
//
// A Table is an explicit value loaded once per run and passed to the
// resolver. Within a source a variant maps to exactly one canonical team;
// Add refuses a variant already claimed by a different team with an
// ErrCollision error, and Load records such rows as Conflicts instead of
// letting a later row overwrite an earlier one.
//
// The persisted form is CSV: a standard_name column followed by one column
// per source (either "<tag>" or "<tag>_name"). A cell may list several
// variants separated by "|". Append serializes concurrent writers with an
// advisory lock on "<file>.lock" and rewrites the file atomically.
package alias
