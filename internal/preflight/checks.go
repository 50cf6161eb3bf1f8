package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/merge"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckReadableFile verifies that path is a regular file the process can read.
func CheckReadableFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckAliasTable loads the alias table and reports conflicting rows. A
// missing table is allowed; every name then resolves to its cleaned form.
func CheckAliasTable(path string) Result {
	const name = "Alias table"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (missing: names resolve to cleaned form)", path)}
	}
	table, err := alias.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if conflicts := table.Conflicts(); len(conflicts) > 0 {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%d canonical teams, %d conflicting variants (first row wins)", table.Len(), len(conflicts))}
	}
	variants := 0
	for _, source := range table.Sources() {
		variants += len(table.Entries(source))
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d canonical teams, %d source variants", table.Len(), variants)}
}

// CheckGames verifies the game feed exists and exposes team and opponent columns.
func CheckGames(games config.Games) Result {
	name := fmt.Sprintf("Games (%s)", games.Source)
	if res := CheckReadableFile(name, games.File); !res.Passed {
		return res
	}
	table, err := tabular.ReadFile(games.File)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	teamIdx, err := table.Find(tabular.Role{Name: "team", Aliases: orDefault(games.TeamColumns, merge.DefaultTeamColumns)})
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if _, err := table.Find(tabular.Role{Name: "opponent", Aliases: orDefault(games.OpponentColumns, merge.DefaultOpponentColumns)}, teamIdx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d games", table.Len())}
}

// CheckRankSource verifies a rank source's raw CSV parses into a rank table.
// Source failures only blank that source's columns, so the check is optional.
func CheckRankSource(src config.Source) Result {
	name := fmt.Sprintf("Source %s", src.Tag)
	if res := CheckReadableFile(name, src.File); !res.Passed {
		res.Optional = true
		return res
	}
	raw, err := tabular.ReadFile(src.File)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	table, err := ranks.Extract(raw, ranks.Spec{Source: src.Tag, TeamColumns: src.TeamColumns, RankColumns: src.RankColumns})
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	detail := fmt.Sprintf("%d rows", len(table.Rows))
	if table.Dropped > 0 {
		detail += fmt.Sprintf(", %d dropped", table.Dropped)
	}
	if table.Snapshot != "" {
		detail += fmt.Sprintf(", snapshot %s", table.Snapshot)
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: detail}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
