package tablecsv

import (
	"path/filepath"
	"strconv"
	"strings"

	"plannedobs/internal/adapters/archive/mast"
	"plannedobs/internal/core/census"
	perr "plannedobs/internal/platform/errors"
)

const occurrencesHeader = "occurrences"

// WriteResults writes rs to path, replacing any existing file, and returns the
// absolute path written. Columns follow the archive field order
func WriteResults(path string, rs mast.ResultSet) (string, error) {
	abs, err := absPath(path)
	if err != nil {
		return "", err
	}
	header := rs.Names()
	index := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := index[h]; dup {
			return "", perr.SchemaMismatchf("archive fields repeat %q", h)
		}
		index[h] = struct{}{}
	}

	rows := make([][]string, len(rs.Data))
	for i, rec := range rs.Data {
		if len(rec) != len(header) {
			for k := range rec {
				if _, ok := index[k]; !ok {
					return "", perr.SchemaMismatchf("row %d: key %q is not an archive field", i, k)
				}
			}
		}
		line := make([]string, len(header))
		for j, h := range header {
			v, ok := rec[h]
			if !ok {
				return "", perr.SchemaMismatchf("row %d: missing field %q", i, h)
			}
			line[j] = Cell(v)
		}
		rows[i] = line
	}

	if err := writeCSV(abs, header, rows); err != nil {
		return "", err
	}
	return abs, nil
}

// WriteCensus writes t as dir/<name>.csv with a [name, occurrences] header and
// one sorted line per distinct value, returning the absolute path
func WriteCensus(dir string, t *census.Table) (string, error) {
	if t == nil {
		return "", perr.InvalidArgf("census table is nil")
	}
	name := t.Spec().Name()
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", perr.InvalidArgf("census name %q is not a valid file name", name)
	}
	absDir, err := absPath(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(absDir, name+".csv")

	entries := t.Entries()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Label(), strconv.Itoa(e.Count)}
	}
	if err := writeCSV(path, []string{name, occurrencesHeader}, rows); err != nil {
		return "", err
	}
	return path, nil
}
