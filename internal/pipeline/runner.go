package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/metrics"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

// Run modes, used as the metrics "mode" label.
const (
	ModeIngest    = "ingest"
	ModeMerge     = "merge"
	ModeDiagnose  = "diagnose"
	ModeStandings = "standings"
	ModeApply     = "aliases_apply"
)

// ErrNoStore is returned by operations that need the snapshot store when the
// runner was built without one.
var ErrNoStore = errors.New("snapshot store is not configured")

// Runner executes pipeline operations against one configuration.
type Runner struct {
	cfg     *config.Config
	store   *store.Store
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithStore attaches the snapshot and review store.
func WithStore(st *store.Store) Option {
	return func(r *Runner) { r.store = st }
}

// WithMetrics attaches a metrics recorder. Counters are written to the
// configured textfile when an operation finishes.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Runner) { r.metrics = rec }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Runner.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the runner's configuration.
func (r *Runner) Config() *config.Config {
	return r.cfg
}

// run is the per-operation context: a run ID, a tagged logger, and the
// start time used for the duration metric.
type run struct {
	id      string
	mode    string
	logger  *slog.Logger
	started time.Time
}

func (r *Runner) begin(ctx context.Context, mode string) (context.Context, *run) {
	id := uuid.NewString()
	ctx = logging.WithRunID(ctx, id)
	rn := &run{
		id:      id,
		mode:    mode,
		logger:  logging.WithContext(ctx, r.logger).With(logging.String("mode", mode)),
		started: r.now(),
	}
	rn.logger.Debug("run started")
	return ctx, rn
}

func (r *Runner) finish(rn *run) {
	finished := r.now()
	r.metrics.RunFinished(rn.mode, rn.started, finished)
	if err := r.metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		logging.WarnWithContext(rn.logger, "metrics textfile not written", "metrics_write_failed",
			logging.Error(err),
			logging.Hint("check metrics.textfile permissions"),
			logging.Impact("run counters are not exported"),
		)
	}
	rn.logger.Debug("run finished", logging.Duration("elapsed", finished.Sub(rn.started)))
}

// loadResolver reads the alias table and builds a resolver over it.
func (r *Runner) loadResolver(rn *run) (*resolver.Resolver, error) {
	table, err := alias.Load(r.cfg.Paths.AliasFile)
	if err != nil {
		return nil, err
	}
	for _, conflict := range table.Conflicts() {
		logging.WarnWithContext(rn.logger, "alias variant claimed twice", "alias_conflict",
			logging.Source(conflict.Source),
			logging.String("variant", conflict.Variant),
			logging.String("kept", conflict.Existing),
			logging.String("ignored", conflict.Proposed),
			logging.Hint("remove one of the rows in the alias table"),
			logging.Impact("the first row wins"),
		)
	}
	rn.logger.Debug("alias table loaded",
		logging.String("path", r.cfg.Paths.AliasFile),
		logging.Int("canonical_teams", table.Len()),
	)
	return resolver.New(table, r.cfg.RuleSets())
}
