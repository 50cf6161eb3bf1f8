// Package collision finds distinct raw spellings that reduce to the same
// comparison key, and alias-table rows that claim a variant already owned by
// another team. Collisions are reported for manual review and never merged
// automatically.
package collision
