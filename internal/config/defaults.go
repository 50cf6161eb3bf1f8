package config

const (
	defaultDataDir         = "~/.local/share/cbbrank"
	defaultRawDirName      = "raw"
	defaultOutputDirName   = "output"
	defaultLogDirName      = "logs"
	defaultAliasFile       = "team_alias.csv"
	defaultStoreFile       = "cbbrank.db"
	defaultGamesFile       = "games.csv"
	defaultGamesSource     = "espn"
	defaultGamesRules      = "generic"
	defaultMergeOutput     = "games_with_ranks.csv"
	defaultUnrated         = "NR"
	defaultThreshold       = 0.6
	defaultAutoAccept      = 0.85
	defaultScorer          = "ratio"
	defaultSuggestionsFile = "suggested_aliases.csv"
	defaultCollisionsFile  = "collisions.csv"
	defaultStandingsOutput = "standings.csv"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults. Sources are
// left empty here and filled by normalize when the file declares none, so a
// [[sources]] list in the file replaces the stock set instead of merging
// with it.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Games: Games{
			File:   defaultGamesFile,
			Source: defaultGamesSource,
			Rules:  defaultGamesRules,
		},
		Merge: Merge{
			OutputFile: defaultMergeOutput,
			Unrated:    defaultUnrated,
		},
		Diagnose: Diagnose{
			Threshold:       defaultThreshold,
			AutoAccept:      defaultAutoAccept,
			Scorer:          defaultScorer,
			SuggestionsFile: defaultSuggestionsFile,
			CollisionsFile:  defaultCollisionsFile,
		},
		Standings: Standings{
			OutputFile: defaultStandingsOutput,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultSources returns the stock rank providers.
func DefaultSources() []Source {
	return []Source{
		{
			Tag: "net", Label: "NET", File: "net_rankings.csv", Rules: "generic", Dedupe: "first",
			TeamColumns: []string{"team", "school"}, RankColumns: []string{"net_rank", "net", "rank"},
			Composite: true,
		},
		{
			Tag: "kenpom", Label: "KenPom", File: "kenpom_rankings.csv", Rules: "seeded", Dedupe: "first",
			TeamColumns: []string{"team", "school"}, RankColumns: []string{"kenpom_rank", "rk", "rank"},
			Composite: true,
		},
		{
			Tag: "bpi", Label: "BPI", File: "bpi_rankings.csv", Rules: "duplicated", Dedupe: "best",
			TeamColumns: []string{"team", "school"}, RankColumns: []string{"bpi_rank", "rk", "rank"},
			Composite: true,
		},
		{
			Tag: "ap", Label: "AP", File: "ap_rankings.csv", Rules: "seeded", Dedupe: "best",
			TeamColumns: []string{"team", "school"}, RankColumns: []string{"ap_rank", "rk", "rank"},
		},
		{
			Tag: "sos", Label: "SoS", File: "sos_rankings.csv", Rules: "conference", Dedupe: "best",
			TeamColumns: []string{"team", "school"}, RankColumns: []string{"sos_rank", "sos", "rank"},
		},
	}
}
