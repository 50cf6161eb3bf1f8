package main

import (
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

func TestRenderTabularLimit(t *testing.T) {
	tbl := &tabular.Table{
		Header: []string{"avg_rank", "team", "NET"},
		Rows: [][]string{
			{"1", "Houston", "2"},
			{"2", "Auburn", "1"},
			{"3", "Duke", "3"},
		},
	}
	out := renderTabular(tbl, 2)
	if !strings.Contains(out, "Auburn") || strings.Contains(out, "Duke") {
		t.Fatalf("expected two rows, got\n%s", out)
	}
	if all := renderTabular(tbl, 0, "team"); !strings.Contains(all, "Duke") {
		t.Fatalf("limit 0 should draw every row\n%s", all)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"ID", "Name", "Note"}, [][]string{{"1", "Gonzaga"}}, []columnAlignment{alignRight})
	if !strings.Contains(out, "Gonzaga") {
		t.Fatalf("missing row\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("no headers should render nothing")
	}
}
