package module

import (
	"time"

	"plannedobs/internal/platform/config"
	dom "plannedobs/internal/services/planned/domain"
)

// defaults for a run with no environment set
const (
	DefaultArchiveURL       = "https://mast.stsci.edu"
	DefaultArchiveService   = "Mast.Caom.Filtered.TestV230"
	DefaultThreshold        = 50000
	DefaultResultsFile      = "testv230.csv"
	DefaultAnalyzeFile      = "testV230.csv"
	DefaultReferenceFile    = "proposalids_gto_ers.csv"
	DefaultCrosscheckColumn = "proposal_id"
)

// DefaultCensusColumns are tallied when CENSUS_COLUMNS is unset
var DefaultCensusColumns = []string{"proposal_id", "proposal_pi", "target_name", "proposal_type", "filters", "s_ra+s_dec"}

// Override adjusts the config after env is read, e.g. from CLI flags
type Override func(*dom.Config)

// FromConfig reads the pipeline config from env; file paths are made absolute
func FromConfig(cfg config.Conf) dom.Config {
	arc := cfg.Prefix("ARCHIVE_")
	return dom.Config{
		ArchiveURL:       arc.MayString("URL", DefaultArchiveURL),
		ArchiveService:   arc.MayString("SERVICE", DefaultArchiveService),
		ArchiveTimeout:   arc.MayDuration("TIMEOUT", 60*time.Second),
		ArchiveMaxBody:   arc.MayInt64("MAX_BODY", 512<<20),
		Threshold:        cfg.MayInt64("THRESHOLD", DefaultThreshold),
		ResultsFile:      cfg.MayPath("RESULTS_FILE", DefaultResultsFile),
		AnalyzeFile:      cfg.MayPath("ANALYZE_FILE", DefaultAnalyzeFile),
		ReferenceFile:    cfg.MayPath("REFERENCE_FILE", DefaultReferenceFile),
		OutputDir:        cfg.MayPath("OUTPUT_DIR", "."),
		CensusColumns:    cfg.MayCSV("CENSUS_COLUMNS", DefaultCensusColumns),
		CrosscheckColumn: cfg.MayString("CROSSCHECK_COLUMN", DefaultCrosscheckColumn),
	}
}
