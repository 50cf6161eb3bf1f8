package merge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// DefaultUnrated marks a team with no rank in a source.
const DefaultUnrated = "NR"

// Output column names for resolved game teams.
const (
	TeamStdColumn     = "team_std"
	OpponentStdColumn = "opponent_std"
)

// Default game header aliases.
var (
	DefaultTeamColumns     = []string{"team", "team_name", "school"}
	DefaultOpponentColumns = []string{"opponent", "opp", "opponent_name"}
)

// ErrRowCount is returned if a join would change the number of game rows.
var ErrRowCount = errors.New("merge changed the game row count")

// GameSpec locates the team columns of the game table.
type GameSpec struct {
	Source          string
	TeamColumns     []string
	OpponentColumns []string
}

// Source is one rank provider's input to a merge. Err carries a load or
// schema failure; such sources contribute only unrated values.
type Source struct {
	Tag    string
	Label  string
	Policy ranks.Policy
	Table  *ranks.Table
	Err    error
}

// Options configures an Engine.
type Options struct {
	Games   GameSpec
	Unrated string
}

// SourceReport summarizes one source's contribution.
type SourceReport struct {
	Tag             string
	Label           string
	Rows            int
	Dropped         int
	Stale           int
	Duplicates      int
	Unresolved      []string
	TeamMatches     int
	OpponentMatches int
	Err             error
}

// Report summarizes a merge.
type Report struct {
	Games         int
	TeamStats     *resolver.Stats
	OpponentStats *resolver.Stats
	Sources       []SourceReport
}

// Failed lists the sources that could not be joined.
func (r Report) Failed() []SourceReport {
	var out []SourceReport
	for _, s := range r.Sources {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Result is the merged table and its report.
type Result struct {
	Table  *tabular.Table
	Report Report
}

// Engine performs merges with one resolver.
type Engine struct {
	resolver *resolver.Resolver
	opts     Options
}

// New returns an Engine.
func New(r *resolver.Resolver, opts Options) *Engine {
	if strings.TrimSpace(opts.Unrated) == "" {
		opts.Unrated = DefaultUnrated
	}
	if len(opts.Games.TeamColumns) == 0 {
		opts.Games.TeamColumns = DefaultTeamColumns
	}
	if len(opts.Games.OpponentColumns) == 0 {
		opts.Games.OpponentColumns = DefaultOpponentColumns
	}
	return &Engine{resolver: r, opts: opts}
}

// Merge joins sources onto games. The input table is not modified. A
// schema error in the game table is fatal; a failed source is reported and
// its columns are filled with the unrated marker.
func (e *Engine) Merge(games *tabular.Table, sources []Source) (*Result, error) {
	teamIdx, err := games.Find(tabular.Role{Name: "team", Aliases: e.opts.Games.TeamColumns})
	if err != nil {
		return nil, fmt.Errorf("games: %w", err)
	}
	oppIdx, err := games.Find(tabular.Role{Name: "opponent", Aliases: e.opts.Games.OpponentColumns}, teamIdx)
	if err != nil {
		return nil, fmt.Errorf("games: %w", err)
	}

	out := games.Clone()
	report := Report{
		Games:         out.Len(),
		TeamStats:     resolver.NewStats(e.opts.Games.Source),
		OpponentStats: resolver.NewStats(e.opts.Games.Source),
	}

	teams := make([]string, out.Len())
	opponents := make([]string, out.Len())
	for i, row := range out.Rows {
		teamRes := e.resolver.ResolveDetail(row[teamIdx], e.opts.Games.Source)
		oppRes := e.resolver.ResolveDetail(row[oppIdx], e.opts.Games.Source)
		report.TeamStats.Record(teamRes)
		report.OpponentStats.Record(oppRes)
		teams[i] = teamRes.Canonical
		opponents[i] = oppRes.Canonical
	}
	if err := out.SetColumn(TeamStdColumn, teams); err != nil {
		return nil, err
	}
	if err := out.SetColumn(OpponentStdColumn, opponents); err != nil {
		return nil, err
	}

	for _, src := range sources {
		label := Label(src)
		sr := SourceReport{Tag: src.Tag, Label: label, Err: src.Err}
		var resolved *ranks.Resolved
		if src.Err == nil && src.Table != nil {
			resolved = ranks.Resolve(src.Table, e.resolver, src.Policy)
			sr.Rows = len(src.Table.Rows)
			sr.Dropped = src.Table.Dropped
			sr.Stale = src.Table.Stale
			sr.Duplicates = resolved.Duplicates
			sr.Unresolved = resolved.Stats.UnresolvedNames()
		} else if src.Err == nil {
			sr.Err = fmt.Errorf("%s: no rank table", src.Tag)
		}

		teamRanks := make([]string, out.Len())
		oppRanks := make([]string, out.Len())
		for i := range out.Rows {
			var ok bool
			teamRanks[i], ok = e.lookup(resolved, teams[i])
			if ok {
				sr.TeamMatches++
			}
			oppRanks[i], ok = e.lookup(resolved, opponents[i])
			if ok {
				sr.OpponentMatches++
			}
		}
		if err := out.SetColumn("Team_"+label, teamRanks); err != nil {
			return nil, err
		}
		if err := out.SetColumn("Opponent_"+label, oppRanks); err != nil {
			return nil, err
		}
		report.Sources = append(report.Sources, sr)
	}

	if out.Len() != games.Len() {
		return nil, fmt.Errorf("%w: %d in, %d out", ErrRowCount, games.Len(), out.Len())
	}
	return &Result{Table: out, Report: report}, nil
}

// Label returns the column label for a source, defaulting to the upper-case tag.
func Label(src Source) string {
	if label := strings.TrimSpace(src.Label); label != "" {
		return label
	}
	return strings.ToUpper(src.Tag)
}

func (e *Engine) lookup(resolved *ranks.Resolved, team string) (string, bool) {
	if resolved == nil || team == "" {
		return e.opts.Unrated, false
	}
	rank, ok := resolved.Ranks[team]
	if !ok {
		return e.opts.Unrated, false
	}
	return strconv.Itoa(rank), true
}
