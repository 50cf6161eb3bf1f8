package pipeline

import (
	"context"
	"fmt"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/fileutil"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

// IngestResult is the outcome of ingesting one source.
type IngestResult struct {
	Source string
	Run    *store.Run
	Err    error
}

// IngestReport summarizes an ingest invocation.
type IngestReport struct {
	RunID   string
	Results []IngestResult
}

// Failed counts sources that could not be ingested.
func (r *IngestReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Ingest parses each selected source's raw CSV and replaces its stored
// snapshot. With no tags every configured source is ingested. A source that
// fails keeps its previous snapshot.
func (r *Runner) Ingest(ctx context.Context, tags ...string) (*IngestReport, error) {
	if r.store == nil {
		return nil, ErrNoStore
	}
	selected, err := r.selectSources(tags)
	if err != nil {
		return nil, err
	}

	ctx, rn := r.begin(ctx, ModeIngest)
	defer r.finish(rn)

	report := &IngestReport{RunID: rn.id}
	for _, src := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := r.ingestSource(logging.WithSource(ctx, src.Tag), rn, src)
		report.Results = append(report.Results, res)
	}
	rn.logger.Info("ingest complete",
		logging.Int("sources", len(report.Results)),
		logging.Int("failed", report.Failed()),
	)
	return report, nil
}

func (r *Runner) ingestSource(ctx context.Context, rn *run, src config.Source) IngestResult {
	logger := logging.WithContext(ctx, rn.logger)
	res := IngestResult{Source: src.Tag}

	checksum, _ := fileutil.Checksum(src.File)
	started, err := r.store.BeginRun(ctx, src.Tag, src.File, checksum)
	if err != nil {
		res.Err = err
		return res
	}
	res.Run = started

	table, err := readRankFile(src)
	if err == nil {
		err = r.store.ReplaceSnapshot(ctx, started, table)
	}
	if err != nil {
		res.Err = err
		r.metrics.SourceFailed(src.Tag)
		if failErr := r.store.FailRun(ctx, started, err); failErr != nil {
			logger.Error("record failed ingest run", logging.Error(failErr))
		}
		logging.WarnWithContext(logger, "source ingest failed", "ingest_failed",
			logging.Error(err),
			logging.String("file", src.File),
			logging.Hint("check the raw CSV header and rank column"),
			logging.Impact("the previous snapshot is kept"),
		)
		return res
	}

	r.metrics.SourceRows(src.Tag, len(table.Rows), table.Dropped)
	logger.Info("source ingested",
		logging.Int("rows", len(table.Rows)),
		logging.Int("dropped", table.Dropped),
		logging.Int("stale", table.Stale),
		logging.String("snapshot", table.Snapshot),
	)
	return res
}

func (r *Runner) selectSources(tags []string) ([]config.Source, error) {
	if len(tags) == 0 {
		return r.cfg.Sources, nil
	}
	out := make([]config.Source, 0, len(tags))
	for _, tag := range tags {
		src, ok := r.cfg.Source(tag)
		if !ok {
			return nil, fmt.Errorf("unknown source %q (configured: %v)", tag, r.cfg.SourceTags())
		}
		out = append(out, src)
	}
	return out, nil
}
