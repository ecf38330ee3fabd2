// Package service drives the planned observations pipeline: collect queries
// the archive into a CSV file, analyze builds census tables from one and
// cross-checks proposal ids against a reference list
package service

import (
	"context"

	"plannedobs/internal/core/census"
	perr "plannedobs/internal/platform/errors"
	"plannedobs/internal/platform/logger"
	dom "plannedobs/internal/services/planned/domain"

	"github.com/google/uuid"
)

// Service implements domain.RunnerPort
type Service struct {
	Archive dom.Archive
	Store   dom.Store
	Cfg     dom.Config

	newID func() string
}

// New constructs the service; cfg is expected to be validated already
func New(archive dom.Archive, store dom.Store, cfg dom.Config) *Service {
	if archive == nil {
		panic("planned.Service requires a non nil Archive")
	}
	if store == nil {
		panic("planned.Service requires a non nil Store")
	}
	return &Service{Archive: archive, Store: store, Cfg: cfg, newID: uuid.NewString}
}

// begin tags ctx with a fresh run id and returns the run-scoped logger
func (s *Service) begin(ctx context.Context, stage string) (context.Context, string, *logger.Logger) {
	id := s.newID()
	ctx = logger.WithRun(ctx, id)
	l := logger.C(ctx).With().Str("stage", stage).Logger()
	return ctx, id, &l
}

// Collect counts planned observations and, below the threshold, fetches them
// all and writes them to ResultsFile
func (s *Service) Collect(ctx context.Context) (dom.CollectResult, error) {
	ctx, id, log := s.begin(ctx, "collect")
	res := dom.CollectResult{RunID: id}
	filters := dom.PlannedFilters()

	n, err := s.Archive.Count(ctx, filters)
	if err != nil {
		return res, err
	}
	res.Count = n
	log.Info().Int64("count", n).Int64("threshold", s.Cfg.Threshold).Msg("archive row count")

	if n >= s.Cfg.Threshold {
		return res, perr.Newf(perr.ErrorCodeThresholdExceeded,
			"archive reports %d planned observations, at or above the threshold of %d; narrow the query", n, s.Cfg.Threshold)
	}

	rs, err := s.Archive.Fetch(ctx, filters)
	if err != nil {
		return res, err
	}
	path, err := s.Store.WriteResults(s.Cfg.ResultsFile, rs)
	if err != nil {
		return res, perr.WithOp(err, "collect.write")
	}
	res.Path, res.Rows = path, len(rs.Data)

	log.Info().Str("path", path).Int("rows", res.Rows).Int("columns", len(rs.Fields)).Msg("csv file written")
	return res, nil
}

// Analyze reads AnalyzeFile, writes one census file per configured column
// into OutputDir and reports reference ids absent from the cross-check census
func (s *Service) Analyze(ctx context.Context) (dom.Report, error) {
	_, id, log := s.begin(ctx, "analyze")
	rep := dom.Report{RunID: id}

	specs, err := s.Cfg.Specs()
	if err != nil {
		return rep, err
	}

	rows, err := s.Store.ReadRows(s.Cfg.AnalyzeFile)
	if err != nil {
		return rep, perr.WithOp(err, "analyze.read")
	}
	rep.Rows = rows.Len()
	log.Info().Str("path", s.Cfg.AnalyzeFile).Int("rows", rep.Rows).Msg("csv file read")

	// inputs are read and every table tallied before the first census file is written
	ids, err := s.Store.ReadReference(s.Cfg.ReferenceFile)
	if err != nil {
		return rep, perr.WithOp(err, "analyze.reference")
	}
	rep.Reference = len(ids)

	tables := make([]*census.Table, 0, len(specs))
	var cross *census.Table
	for _, spec := range specs {
		t, err := tally(rows, spec)
		if err != nil {
			return rep, perr.WithOp(err, "analyze.census")
		}
		log.Info().Str("column", spec.Name()).Int("unique", t.Len()).Msg("found unique entries")
		if spec.Paired() {
			if es := t.Entries(); len(es) > 0 {
				log.Debug().Str("column", spec.Name()).Str("first", es[0].Label()).Msg("first paired value")
			}
		}
		tables = append(tables, t)
		if !spec.Paired() && spec.Name() == s.Cfg.CrosscheckColumn {
			cross = t
		}
	}
	if cross == nil {
		return rep, perr.Newf(perr.ErrorCodeValidation, "no census configured for cross-check column %q", s.Cfg.CrosscheckColumn)
	}

	for _, t := range tables {
		path, err := s.Store.WriteCensus(s.Cfg.OutputDir, t)
		if err != nil {
			return rep, perr.WithOp(err, "analyze.write")
		}
		log.Debug().Str("column", t.Spec().Name()).Str("path", path).Msg("census file written")
		rep.Tables = append(rep.Tables, dom.CensusFile{Table: t, Path: path})
	}

	rep.Missing = census.FindMissing(ids, cross)

	log.Info().
		Str("column", s.Cfg.CrosscheckColumn).
		Int("reference", rep.Reference).
		Int("count", len(rep.Missing)).
		Strs("ids", rep.Missing).
		Msg("missing proposal ids")
	return rep, nil
}

// tally pulls the spec's columns out of rows and counts them
func tally(rows dom.Rows, spec census.Spec) (*census.Table, error) {
	cols := spec.Columns()
	seqs := make([][]string, 0, len(cols))
	for _, c := range cols {
		vals, err := rows.Column(c)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, vals)
	}
	return census.Tally(spec, seqs...)
}
