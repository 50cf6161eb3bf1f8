package standings

import (
	"math"
	"sort"
	"strconv"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// Source is one resolved rank source.
type Source struct {
	Tag       string
	Label     string
	Composite bool
	Ranks     *ranks.Resolved
}

// Row is one team's standing.
type Row struct {
	Team     string
	Ranks    map[string]int
	AvgValue float64
	AvgRank  int
}

// Standings is the ordered composite table.
type Standings struct {
	Sources []Source
	Rows    []Row
}

// Build combines sources. Teams with no composite rank are left out. When no
// source is marked composite, every source counts.
func Build(sources []Source) *Standings {
	composite := make(map[string]bool, len(sources))
	anyComposite := false
	for _, src := range sources {
		if src.Composite {
			anyComposite = true
		}
	}
	for _, src := range sources {
		composite[src.Tag] = src.Composite || !anyComposite
	}

	byTeam := make(map[string]map[string]int)
	for _, src := range sources {
		if src.Ranks == nil {
			continue
		}
		for team, rank := range src.Ranks.Ranks {
			entry := byTeam[team]
			if entry == nil {
				entry = make(map[string]int)
				byTeam[team] = entry
			}
			entry[src.Tag] = rank
		}
	}

	rows := make([]Row, 0, len(byTeam))
	for team, teamRanks := range byTeam {
		var sum float64
		var n int
		for tag, rank := range teamRanks {
			if composite[tag] {
				sum += float64(rank)
				n++
			}
		}
		if n == 0 {
			continue
		}
		rows = append(rows, Row{
			Team:     team,
			Ranks:    teamRanks,
			AvgValue: math.Round(sum/float64(n)*10) / 10,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AvgValue != rows[j].AvgValue {
			return rows[i].AvgValue < rows[j].AvgValue
		}
		return rows[i].Team < rows[j].Team
	})
	for i := range rows {
		if i > 0 && rows[i].AvgValue == rows[i-1].AvgValue {
			rows[i].AvgRank = rows[i-1].AvgRank
		} else {
			rows[i].AvgRank = i + 1
		}
	}
	return &Standings{Sources: sources, Rows: rows}
}

// Table renders the standings. Missing ranks use unrated.
func (s *Standings) Table(unrated string) *tabular.Table {
	header := []string{"avg_rank", "team"}
	for _, src := range s.Sources {
		header = append(header, src.Label)
	}
	header = append(header, "avg_value")

	out := &tabular.Table{Name: "standings", Header: header}
	for _, row := range s.Rows {
		cells := []string{strconv.Itoa(row.AvgRank), row.Team}
		for _, src := range s.Sources {
			if rank, ok := row.Ranks[src.Tag]; ok {
				cells = append(cells, strconv.Itoa(rank))
			} else {
				cells = append(cells, unrated)
			}
		}
		cells = append(cells, strconv.FormatFloat(row.AvgValue, 'f', 1, 64))
		out.Rows = append(out.Rows, cells)
	}
	return out
}
