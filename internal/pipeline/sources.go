package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/merge"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// Origins of a loaded rank table.
const (
	OriginStore = "store"
	OriginFile  = "file"
)

// loadedSource is one configured source with its rank table or the error
// that prevented loading it.
type loadedSource struct {
	cfg    config.Source
	table  *ranks.Table
	origin string
	err    error
}

// readRankFile parses a source's raw CSV.
func readRankFile(src config.Source) (*ranks.Table, error) {
	raw, err := tabular.ReadFile(src.File)
	if err != nil {
		return nil, err
	}
	return ranks.Extract(raw, rankSpec(src))
}

func rankSpec(src config.Source) ranks.Spec {
	return ranks.Spec{Source: src.Tag, TeamColumns: src.TeamColumns, RankColumns: src.RankColumns}
}

// loadSources reads every configured source. Stored snapshots are preferred
// unless merge.from_files is set; a source never ingested falls back to its
// raw file.
func (r *Runner) loadSources(ctx context.Context, rn *run) []loadedSource {
	out := make([]loadedSource, 0, len(r.cfg.Sources))
	useStore := r.store != nil && !r.cfg.Merge.FromFiles
	for _, src := range r.cfg.Sources {
		ls := loadedSource{cfg: src}
		if useStore {
			table, err := r.store.LoadSnapshot(ctx, src.Tag)
			switch {
			case err == nil:
				ls.table, ls.origin = table, OriginStore
			case errors.Is(err, store.ErrNotFound):
				rn.logger.Info("source not ingested; reading raw file",
					logging.Source(src.Tag),
					logging.String("file", src.File),
				)
			default:
				ls.err = err
			}
		}
		if ls.table == nil && ls.err == nil {
			ls.table, ls.err = readRankFile(src)
			ls.origin = OriginFile
		}
		if ls.err != nil {
			r.metrics.SourceFailed(src.Tag)
			logging.WarnWithContext(rn.logger, "rank source unavailable", "source_failed",
				logging.Source(src.Tag),
				logging.Error(ls.err),
				logging.Hint("run cbbrank check to inspect the source file"),
				logging.Impact("source columns are filled with the unrated marker"),
			)
		}
		out = append(out, ls)
	}
	return out
}

func (r *Runner) gameSpec() merge.GameSpec {
	return merge.GameSpec{
		Source:          r.cfg.Games.Source,
		TeamColumns:     r.cfg.Games.TeamColumns,
		OpponentColumns: r.cfg.Games.OpponentColumns,
	}
}

// loadGames reads the game feed.
func (r *Runner) loadGames() (*tabular.Table, error) {
	games, err := tabular.ReadFile(r.cfg.Games.File)
	if err != nil {
		return nil, fmt.Errorf("games: %w", err)
	}
	return games, nil
}

// gameNames returns every non-empty team and opponent cell of games.
func gameNames(games *tabular.Table, spec merge.GameSpec) ([]string, error) {
	teamIdx, err := games.Find(tabular.Role{Name: "team", Aliases: orDefault(spec.TeamColumns, merge.DefaultTeamColumns)})
	if err != nil {
		return nil, fmt.Errorf("games: %w", err)
	}
	oppIdx, err := games.Find(tabular.Role{Name: "opponent", Aliases: orDefault(spec.OpponentColumns, merge.DefaultOpponentColumns)}, teamIdx)
	if err != nil {
		return nil, fmt.Errorf("games: %w", err)
	}
	names := make([]string, 0, 2*games.Len())
	for _, row := range games.Rows {
		for _, cell := range []string{row[teamIdx], row[oppIdx]} {
			if cell = strings.TrimSpace(cell); cell != "" {
				names = append(names, cell)
			}
		}
	}
	return names, nil
}

func teamNames(t *ranks.Table) []string {
	names := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		names = append(names, row.Team)
	}
	return names
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
