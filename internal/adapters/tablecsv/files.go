package tablecsv

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	perr "plannedobs/internal/platform/errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// openCSV opens path for reading with any leading BOM removed
// (UTF-16 files carrying a BOM are decoded to UTF-8)
func openCSV(path string) (*csv.Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, perr.Wrapf(err, perr.ErrorCodeFileNotFound, "csv file %s not found", path)
		}
		return nil, nil, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path)
	}
	src := transform.NewReader(f, unicode.BOMOverride(encoding.Nop.NewDecoder()))
	return csv.NewReader(src), f, nil
}

// writeCSV writes header and rows to path through a .part file and a rename
func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create dir for %s", path)
	}
	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create %s", tmp)
	}
	defer func() { _ = os.Remove(tmp) }()

	w := csv.NewWriter(out)
	werr := writeRecord(w, out, header)
	for i := 0; werr == nil && i < len(rows); i++ {
		werr = writeRecord(w, out, rows[i])
	}
	if werr == nil {
		w.Flush()
		werr = w.Error()
	}
	cerr := out.Close()
	if werr != nil {
		return perr.Wrapf(werr, perr.ErrorCodeIO, "write %s", path)
	}
	if cerr != nil {
		return perr.Wrapf(cerr, perr.ErrorCodeIO, "close %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "rename %s", tmp)
	}
	return nil
}

// writeRecord writes one record. csv.Writer renders a lone empty field as a
// blank line, which readers skip, so that record is written as ""
func writeRecord(w *csv.Writer, out io.Writer, rec []string) error {
	if len(rec) != 1 || rec[0] != "" {
		return w.Write(rec)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\"\"\n")
	return err
}

// absPath resolves p against the working directory
func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeIO, "resolve %s", p)
	}
	return abs, nil
}
