package domain

import (
	"context"

	"plannedobs/internal/core/census"
)

// RunnerPort is the public port of the planned module
type RunnerPort interface {
	Collect(ctx context.Context) (CollectResult, error)
	Analyze(ctx context.Context) (Report, error)
}

// Archive answers the two filtered queries
type Archive interface {
	Count(ctx context.Context, filters []Filter) (int64, error)
	Fetch(ctx context.Context, filters []Filter) (ResultSet, error)
}

// Store persists results and census tables and reads inputs back
type Store interface {
	WriteResults(path string, rs ResultSet) (string, error)
	ReadRows(path string) (Rows, error)
	ReadReference(path string) ([]string, error)
	WriteCensus(dir string, t *census.Table) (string, error)
}
