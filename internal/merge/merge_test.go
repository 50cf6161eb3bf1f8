package merge

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

const games = `date,team,opponent,location,team_score,opponent_score
2025-01-04,Duke Blue Devils,UNC,Home,80,70
2025-01-07,UNC,Duke Blue Devils,Away,,
2025-01-09,Mystery U,Duke Blue Devils,Neutral,60,61
2025-01-09,Mystery U,Duke Blue Devils,Neutral,60,61
`

func fixtureResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	table, err := alias.Parse(strings.NewReader(
		"standard_name,espn,net,kenpom\nDuke,Duke Blue Devils,Duke,Duke\nNorth Carolina,UNC,North Carolina,N Carolina\n"), "alias")
	if err != nil {
		t.Fatal(err)
	}
	r, err := resolver.New(table, map[string]string{"espn": "generic"})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func readTable(t *testing.T, data string) *tabular.Table {
	t.Helper()
	table, err := tabular.Read(strings.NewReader(data), "games.csv")
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func cell(t *testing.T, table *tabular.Table, row int, column string) string {
	t.Helper()
	idx := table.Index(column)
	if idx < 0 {
		t.Fatalf("missing column %s in %v", column, table.Header)
	}
	return table.Rows[row][idx]
}

func TestMergeDukeNetOnlyScenario(t *testing.T) {
	engine := New(fixtureResolver(t), Options{Games: GameSpec{Source: "espn"}})
	sources := []Source{
		{Tag: "net", Label: "NET", Table: &ranks.Table{Source: "net", Rows: []ranks.Row{{Team: "Duke", Rank: 1}}}},
		{Tag: "kenpom", Label: "KenPom", Table: &ranks.Table{Source: "kenpom"}},
	}
	result, err := engine.Merge(readTable(t, games), sources)
	if err != nil {
		t.Fatal(err)
	}
	out := result.Table

	if got := cell(t, out, 0, TeamStdColumn); got != "Duke" {
		t.Fatalf("team_std = %q", got)
	}
	if got := cell(t, out, 0, OpponentStdColumn); got != "North Carolina" {
		t.Fatalf("opponent_std = %q", got)
	}
	if got := cell(t, out, 0, "Team_NET"); got != "1" {
		t.Fatalf("Team_NET = %q", got)
	}
	if got := cell(t, out, 0, "Opponent_NET"); got != DefaultUnrated {
		t.Fatalf("Opponent_NET = %q", got)
	}
	for row := range out.Rows {
		for _, col := range []string{"Team_KenPom", "Opponent_KenPom"} {
			if got := cell(t, out, row, col); got != DefaultUnrated {
				t.Fatalf("row %d %s = %q, want unrated", row, col, got)
			}
		}
	}
	if got := cell(t, out, 1, "Opponent_NET"); got != "1" {
		t.Fatalf("opponent join failed: %q", got)
	}
}

func TestMergePreservesRowCountAndOrder(t *testing.T) {
	engine := New(fixtureResolver(t), Options{Games: GameSpec{Source: "espn"}, Unrated: "-"})
	in := readTable(t, games)
	result, err := engine.Merge(in, []Source{
		{Tag: "net", Table: &ranks.Table{Source: "net", Rows: []ranks.Row{{Team: "Duke", Rank: 3}, {Team: "North Carolina", Rank: 9}}}},
		{Tag: "ap", Err: errors.New("ap.csv: no rank column")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Table.Len() != in.Len() {
		t.Fatalf("rows = %d, want %d", result.Table.Len(), in.Len())
	}
	for i, row := range in.Rows {
		if result.Table.Rows[i][0] != row[0] || result.Table.Rows[i][1] != row[1] {
			t.Fatalf("row %d reordered: %v vs %v", i, result.Table.Rows[i], row)
		}
	}
	if got := cell(t, result.Table, 2, TeamStdColumn); got != "Mystery U" {
		t.Fatalf("unresolved team should keep cleaned name, got %q", got)
	}
	if got := cell(t, result.Table, 2, "Team_NET"); got != "-" {
		t.Fatalf("unresolved team rank = %q", got)
	}
	if got := cell(t, result.Table, 0, "Team_AP"); got != "-" {
		t.Fatalf("failed source should be unrated, got %q", got)
	}
	failed := result.Report.Failed()
	if len(failed) != 1 || failed[0].Tag != "ap" {
		t.Fatalf("failed sources = %+v", failed)
	}
	if result.Report.TeamStats.Unresolved["Mystery U"] != 2 {
		t.Fatalf("team stats = %+v", result.Report.TeamStats)
	}
	if in.Index(TeamStdColumn) >= 0 {
		t.Fatal("input table was modified")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	engine := New(fixtureResolver(t), Options{Games: GameSpec{Source: "espn"}})
	sources := []Source{
		{Tag: "net", Label: "NET", Policy: ranks.PolicyBest, Table: &ranks.Table{Source: "net", Rows: []ranks.Row{
			{Team: "Duke", Rank: 4}, {Team: "Duke", Rank: 2}, {Team: "North Carolina", Rank: 7},
		}}},
	}
	encode := func(table *tabular.Table) string {
		var buf bytes.Buffer
		if err := tabular.Write(&buf, table); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}

	first, err := engine.Merge(readTable(t, games), sources)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Merge(readTable(t, games), sources)
	if err != nil {
		t.Fatal(err)
	}
	if encode(first.Table) != encode(second.Table) {
		t.Fatal("repeated merges differ")
	}
	if got := cell(t, first.Table, 0, "Team_NET"); got != "2" {
		t.Fatalf("best policy not applied: %q", got)
	}

	again, err := engine.Merge(first.Table, sources)
	if err != nil {
		t.Fatal(err)
	}
	if encode(again.Table) != encode(first.Table) {
		t.Fatal("merging merged output added or changed columns")
	}
}

func TestMergeMissingOpponentColumn(t *testing.T) {
	engine := New(fixtureResolver(t), Options{})
	_, err := engine.Merge(readTable(t, "date,team\n2025-01-01,Duke\n"), nil)
	if !errors.Is(err, tabular.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}
