package standings

import (
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
)

func resolved(source string, r map[string]int) *ranks.Resolved {
	return &ranks.Resolved{Source: source, Ranks: r}
}

func TestBuildAveragesCompositeSources(t *testing.T) {
	s := Build([]Source{
		{Tag: "net", Label: "NET", Composite: true, Ranks: resolved("net", map[string]int{"Duke": 1, "Houston": 2, "Auburn": 4})},
		{Tag: "kenpom", Label: "KenPom", Composite: true, Ranks: resolved("kenpom", map[string]int{"Duke": 2, "Houston": 1, "Auburn": 3})},
		{Tag: "ap", Label: "AP", Ranks: resolved("ap", map[string]int{"Gonzaga": 5, "Duke": 1})},
	})
	if len(s.Rows) != 3 {
		t.Fatalf("rows = %+v", s.Rows)
	}
	if s.Rows[0].Team != "Duke" || s.Rows[1].Team != "Houston" {
		t.Fatalf("tie should order by team: %+v", s.Rows)
	}
	if s.Rows[0].AvgValue != 1.5 || s.Rows[0].AvgRank != 1 || s.Rows[1].AvgRank != 1 {
		t.Fatalf("min-method rank failed: %+v", s.Rows[:2])
	}
	if s.Rows[2].Team != "Auburn" || s.Rows[2].AvgRank != 3 || s.Rows[2].AvgValue != 3.5 {
		t.Fatalf("third row = %+v", s.Rows[2])
	}
}

func TestBuildWithoutCompositeUsesAll(t *testing.T) {
	s := Build([]Source{
		{Tag: "ap", Label: "AP", Ranks: resolved("ap", map[string]int{"Gonzaga": 5})},
		{Tag: "sos", Label: "SoS", Ranks: nil},
	})
	if len(s.Rows) != 1 || s.Rows[0].AvgValue != 5 {
		t.Fatalf("rows = %+v", s.Rows)
	}
}

func TestTableRendering(t *testing.T) {
	s := Build([]Source{
		{Tag: "net", Label: "NET", Composite: true, Ranks: resolved("net", map[string]int{"Duke": 1, "Kansas": 2})},
		{Tag: "bpi", Label: "BPI", Composite: true, Ranks: resolved("bpi", map[string]int{"Duke": 2})},
	})
	table := s.Table("NR")
	if got := strings.Join(table.Header, ","); got != "avg_rank,team,NET,BPI,avg_value" {
		t.Fatalf("header = %s", got)
	}
	if got := strings.Join(table.Rows[0], ","); got != "1,Duke,1,2,1.5" {
		t.Fatalf("row 0 = %s", got)
	}
	if got := strings.Join(table.Rows[1], ","); got != "2,Kansas,2,NR,2.0" {
		t.Fatalf("row 1 = %s", got)
	}
}
