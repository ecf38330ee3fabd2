// Package domain holds the types and ports of the planned observations pipeline
package domain

import (
	"slices"
	"time"

	"plannedobs/internal/adapters/archive/mast"
	"plannedobs/internal/adapters/tablecsv"
	"plannedobs/internal/core/census"
	perr "plannedobs/internal/platform/errors"
	"plannedobs/internal/platform/validate"
)

// Filter re-exports the archive filter shape
type Filter = mast.Filter

// ResultSet re-exports the decoded archive result shape
type ResultSet = mast.ResultSet

// Rows re-exports the CSV rows read back for analysis
type Rows = tablecsv.Rows

// PlannedFilters is the fixed filter list selecting planned observations
func PlannedFilters() []Filter { return mast.PlannedFilters() }

// Config is everything a run needs; env names the variable (without prefix) each field comes from
type Config struct {
	ArchiveURL     string        `env:"ARCHIVE_URL" validate:"required,url"`
	ArchiveService string        `env:"ARCHIVE_SERVICE" validate:"required"`
	ArchiveTimeout time.Duration `env:"ARCHIVE_TIMEOUT" validate:"gt=0"`
	ArchiveMaxBody int64         `env:"ARCHIVE_MAX_BODY" validate:"gt=0"`

	// Threshold is the row count at or above which collect refuses to fetch
	Threshold int64 `env:"THRESHOLD" validate:"gt=0"`

	ResultsFile   string `env:"RESULTS_FILE" validate:"required"`
	AnalyzeFile   string `env:"ANALYZE_FILE" validate:"required"`
	ReferenceFile string `env:"REFERENCE_FILE" validate:"required"`
	OutputDir     string `env:"OUTPUT_DIR" validate:"required"`

	CensusColumns    []string `env:"CENSUS_COLUMNS" validate:"required,min=1,dive,column_spec"`
	CrosscheckColumn string   `env:"CROSSCHECK_COLUMN" validate:"required,excludes=+"`
}

// Validate checks field rules, then that the cross-check column has its own census
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !slices.Contains(c.CensusColumns, c.CrosscheckColumn) {
		return perr.Newf(perr.ErrorCodeValidation,
			"invalid configuration: CROSSCHECK_COLUMN %q must be one of CENSUS_COLUMNS %v", c.CrosscheckColumn, c.CensusColumns)
	}
	return nil
}

// Specs parses CensusColumns in order
func (c Config) Specs() ([]census.Spec, error) {
	out := make([]census.Spec, 0, len(c.CensusColumns))
	for _, s := range c.CensusColumns {
		sp, err := census.ParseSpec(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, nil
}

// CollectResult describes a finished collect run
type CollectResult struct {
	RunID string
	Count int64
	Path  string
	Rows  int
}

// CensusFile is one census table and where it was written
type CensusFile struct {
	Table *census.Table
	Path  string
}

// Report describes a finished analyze run
type Report struct {
	RunID  string
	Rows   int
	Tables []CensusFile

	// Reference is the number of ids read from the reference list
	Reference int
	Missing   []string
}
