// Package resolver maps raw team names from a named source onto canonical
// teams using an explicit alias table value.
//
// Resolution order: clean the name with the source's rule set; look up the
// source's aliases case-insensitively; match a canonical name directly; then
// try the punctuation-insensitive comparison key, accepted only when it
// identifies a single team. Anything else falls back to the cleaned name and
// is reported as unresolved. The resolver never mutates the table.
package resolver
