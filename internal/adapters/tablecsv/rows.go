package tablecsv

import (
	"encoding/csv"
	"errors"
	"io"

	perr "plannedobs/internal/platform/errors"
)

// Row maps column name to cell text
type Row map[string]string

// Rows is a CSV file read back as text: the header plus one Row per record
type Rows struct {
	Header  []string
	Records []Row
}

// Len is the number of records, header excluded
func (r Rows) Len() int { return len(r.Records) }

// Column returns every value of the named column in record order
func (r Rows) Column(name string) ([]string, error) {
	found := false
	for _, h := range r.Header {
		if h == name {
			found = true
			break
		}
	}
	if !found {
		return nil, perr.SchemaMismatchf("column %q not in header %v", name, r.Header)
	}
	out := make([]string, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec[name]
	}
	return out, nil
}

// ReadRows loads a results CSV. The first line is the header; every later
// record must carry exactly one value per header column
func ReadRows(path string) (Rows, error) {
	abs, err := absPath(path)
	if err != nil {
		return Rows{}, err
	}
	cr, closer, err := openCSV(abs)
	if err != nil {
		return Rows{}, err
	}
	defer func() { _ = closer.Close() }()

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Rows{}, nil
	}
	if err != nil {
		return Rows{}, readErr(abs, err)
	}
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := seen[h]; dup {
			return Rows{}, perr.SchemaMismatchf("%s: duplicate column %q in header", abs, h)
		}
		seen[h] = struct{}{}
	}

	// csv enforces the header's field count on every record once it is set
	cr.FieldsPerRecord = len(header)
	out := Rows{Header: header, Records: make([]Row, 0)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Rows{}, readErr(abs, err)
		}
		row := make(Row, len(header))
		for i, h := range header {
			row[h] = rec[i]
		}
		out.Records = append(out.Records, row)
	}
	return out, nil
}

// ReadReference returns the first column of every record, in file order with
// duplicates kept. There is no header; ragged records are fine
func ReadReference(path string) ([]string, error) {
	abs, err := absPath(path)
	if err != nil {
		return nil, err
	}
	cr, closer, err := openCSV(abs)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer.Close() }()

	cr.FieldsPerRecord = -1
	ids := make([]string, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return nil, readErr(abs, err)
		}
		if len(rec) == 0 {
			continue
		}
		ids = append(ids, rec[0])
	}
}

func readErr(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return perr.Wrapf(err, perr.ErrorCodeSchemaMismatch, "%s: malformed csv", path)
	}
	return perr.Wrapf(err, perr.ErrorCodeIO, "read %s", path)
}
