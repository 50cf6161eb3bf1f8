package ranks

import (
	"fmt"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// SnapshotColumn names the optional snapshot date column.
const SnapshotColumn = "snapshot_date"

// DefaultTeamColumns and DefaultRankColumns are tried when a source
// configures none.
var (
	DefaultTeamColumns = []string{"team", "school", "name"}
	DefaultRankColumns = []string{"rank"}
)

// Spec describes how to read one source's table.
type Spec struct {
	Source      string
	TeamColumns []string
	RankColumns []string
}

// Row is one coerced rank row with its raw team name.
type Row struct {
	Team string
	Rank int
}

// Table is a source's coerced rank rows.
type Table struct {
	Source   string
	Snapshot string
	Rows     []Row
	// Dropped counts rows with a blank team or an unparsable rank.
	Dropped int
	// Stale counts rows from older snapshots.
	Stale int
}

// Extract reads team and rank columns from raw. The team column falls back
// to the first column and the rank column to the first other column whose
// cells all parse as ranks.
func Extract(raw *tabular.Table, spec Spec) (*Table, error) {
	teamRole := tabular.Role{
		Name:     "team",
		Aliases:  orDefault(spec.TeamColumns, DefaultTeamColumns),
		Fallback: tabular.FirstColumn,
	}
	teamIdx, err := raw.Find(teamRole)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Source, err)
	}
	rankRole := tabular.Role{
		Name:     "rank",
		Aliases:  orDefault(spec.RankColumns, DefaultRankColumns),
		Fallback: tabular.FirstNumericColumn,
		Numeric:  isRank,
	}
	rankIdx, err := raw.Find(rankRole, teamIdx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Source, err)
	}

	out := &Table{Source: spec.Source}
	snapshotIdx := raw.Index(SnapshotColumn)
	if snapshotIdx >= 0 {
		out.Snapshot = LatestSnapshot(raw.Column(snapshotIdx))
	}
	for _, row := range raw.Rows {
		if snapshotIdx >= 0 && out.Snapshot != "" && strings.TrimSpace(row[snapshotIdx]) != out.Snapshot {
			out.Stale++
			continue
		}
		team := strings.TrimSpace(row[teamIdx])
		rank, ok := ParseRank(row[rankIdx])
		if team == "" || !ok {
			out.Dropped++
			continue
		}
		out.Rows = append(out.Rows, Row{Team: team, Rank: rank})
	}
	return out, nil
}

// LatestSnapshot returns the greatest non-empty value. Snapshot dates are
// ISO formatted, so lexical order is chronological.
func LatestSnapshot(values []string) string {
	latest := ""
	for _, v := range values {
		if v = strings.TrimSpace(v); v > latest {
			latest = v
		}
	}
	return latest
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
