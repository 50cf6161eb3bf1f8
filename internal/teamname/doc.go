// Package teamname cleans raw team names from heterogeneous feeds into a
// stable display form and derives the comparison key used for matching.
//
// Clean runs the shared pipeline (diacritic stripping, quote and dash
// folding, whitespace collapsing) and then one source-specific RuleSet. Each
// Rule is a named predicate and transform; rules are applied until none
// fires, so Clean(Clean(x)) == Clean(x) for every rule set. Key lowercases a
// name and keeps only letters and digits, folding leading "St" to Saint and
// trailing "St" to State.
//
// Everything here is pure and safe for concurrent use.
package teamname
