package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"plannedobs/internal/core/version"
	"plannedobs/internal/modkit"
	perr "plannedobs/internal/platform/errors"
	"plannedobs/internal/platform/logger"
	dom "plannedobs/internal/services/planned/domain"
	plannedmod "plannedobs/internal/services/planned/module"

	"github.com/spf13/cobra"
)

// flags shared by every subcommand; only flags the user set override env
type flags struct {
	archiveURL    string
	threshold     int64
	resultsFile   string
	analyzeFile   string
	referenceFile string
	outputDir     string
	census        []string
	crosscheck    string
}

func (f *flags) overrides(cmd *cobra.Command) plannedmod.Override {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	abs := func(p string) string {
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	}
	return func(c *dom.Config) {
		if changed("archive-url") {
			c.ArchiveURL = f.archiveURL
		}
		if changed("threshold") {
			c.Threshold = f.threshold
		}
		if changed("results-file") {
			c.ResultsFile = abs(f.resultsFile)
		}
		if changed("analyze-file") {
			c.AnalyzeFile = abs(f.analyzeFile)
		}
		if changed("reference-file") {
			c.ReferenceFile = abs(f.referenceFile)
		}
		if changed("output-dir") {
			c.OutputDir = abs(f.outputDir)
		}
		if changed("census") {
			c.CensusColumns = f.census
		}
		if changed("crosscheck") {
			c.CrosscheckColumn = f.crosscheck
		}
	}
}

// runner builds the planned module and returns its runner port
func (f *flags) runner(cmd *cobra.Command) (dom.RunnerPort, error) {
	m, err := plannedmod.Build(f.overrides(cmd))(modkit.Default())
	if err != nil {
		return nil, err
	}
	return modkit.MustPortsOf[dom.RunnerPort](m), nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "plannedobs",
		Short: "Census and cross-check planned archive observations",
		Long: "Without a subcommand, reads the analyze CSV, writes one census file per\n" +
			"configured column and lists reference proposal ids that never appear.\n\n" +
			"Every flag has a PLANNEDOBS_* environment variable. The env value wins unless\n" +
			"the flag is given on the command line, so the defaults shown below apply only\n" +
			"when neither is set.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := f.runner(cmd)
			if err != nil {
				return err
			}
			rep, err := r.Analyze(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range rep.Tables {
				fmt.Fprintf(out, "%s\t%d unique\t%s\n", t.Table.Spec().Name(), t.Table.Len(), t.Path)
			}
			fmt.Fprintf(out, "missing %d of %d reference ids\n", len(rep.Missing), rep.Reference)
			for _, id := range rep.Missing {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.archiveURL, "archive-url", plannedmod.DefaultArchiveURL, "archive base url (env PLANNEDOBS_ARCHIVE_URL)")
	pf.Int64Var(&f.threshold, "threshold", plannedmod.DefaultThreshold, "refuse to fetch at or above this many rows (env PLANNEDOBS_THRESHOLD)")
	pf.StringVar(&f.resultsFile, "results-file", plannedmod.DefaultResultsFile, "csv written by collect (env PLANNEDOBS_RESULTS_FILE)")
	pf.StringVar(&f.analyzeFile, "analyze-file", plannedmod.DefaultAnalyzeFile, "csv read by analyze (env PLANNEDOBS_ANALYZE_FILE)")
	pf.StringVar(&f.referenceFile, "reference-file", plannedmod.DefaultReferenceFile, "proposal id reference list (env PLANNEDOBS_REFERENCE_FILE)")
	pf.StringVar(&f.outputDir, "output-dir", ".", "directory for census files (env PLANNEDOBS_OUTPUT_DIR)")
	pf.StringSliceVar(&f.census, "census", plannedmod.DefaultCensusColumns, "columns to census; pairs as a+b (env PLANNEDOBS_CENSUS_COLUMNS)")
	pf.StringVar(&f.crosscheck, "crosscheck", plannedmod.DefaultCrosscheckColumn, "column reference ids are checked against (env PLANNEDOBS_CROSSCHECK_COLUMN)")

	root.AddCommand(newCollectCmd(f, out), newVersionCmd(out))
	return root
}

func newCollectCmd(f *flags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Query the archive for planned observations and write them to the results csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := f.runner(cmd)
			if err != nil {
				return err
			}
			res, err := r.Collect(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d rows written to %s\n", res.Rows, res.Path)
			return nil
		},
	}
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(version.Info())
		},
	}
}

// run executes the command line and maps the outcome to an exit status
func run(args []string, out io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(out)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	ev := logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String())
	if e, ok := perr.As(err); ok && e.Op() != "" {
		ev = ev.Str("op", e.Op())
	}
	ev.Msg("plannedobs failed")
	if _, ok := perr.As(err); !ok {
		// cobra usage errors carry no code
		return perr.ExitStatus(perr.ErrorCodeInvalidArgument)
	}
	return perr.ExitCode(err)
}
