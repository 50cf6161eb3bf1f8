// Package similarity scores unresolved team names against known canonical
// names and ranks the candidates.
//
// Scorers work on case-folded strings and return values in [0, 1]:
//   - ratio: matching-subsequence ratio 2*M/T (go-difflib SequenceMatcher)
//   - levenshtein: 1 - d/(|a|+|b|) with unit insert/delete cost
//   - cosine: term-frequency fingerprint cosine over tokens of 3+ chars
//
// Suggest lifts any score when every token of one name appears in the
// other ("Army West Point" against "Army"), then orders matches by score
// descending and candidate name ascending so output is deterministic.
// Acting on a score is the caller's decision; see AutoAcceptThreshold.
package similarity
