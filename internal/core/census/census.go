// Package census counts distinct values of one column, or of an ordered pair
// of columns, and cross-checks expected identifiers against those counts
package census

import (
	"slices"
	"strings"

	perr "plannedobs/internal/platform/errors"
)

// PairSep joins the two column names of a paired spec
const PairSep = "+"

// Spec names the column, or ordered column pair, a census is taken over
type Spec struct {
	columns []string
}

// Single returns a one-column spec
func Single(col string) Spec { return Spec{columns: []string{col}} }

// Pair returns an ordered two-column spec
func Pair(a, b string) Spec { return Spec{columns: []string{a, b}} }

// ParseSpec reads "col" or "a+b"
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	a, b, paired := strings.Cut(s, PairSep)
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "":
		return Spec{}, perr.InvalidArgf("census spec %q: empty column name", s)
	case !paired:
		return Single(a), nil
	case b == "" || strings.Contains(b, PairSep):
		return Spec{}, perr.InvalidArgf("census spec %q: want one column or a pair a%sb", s, PairSep)
	default:
		return Pair(a, b), nil
	}
}

// Columns returns the column names in order
func (s Spec) Columns() []string { return slices.Clone(s.columns) }

// Paired reports whether the spec covers two columns
func (s Spec) Paired() bool { return len(s.columns) == 2 }

// Name is the column name, or "a+b" for a pair; census files are named after it
func (s Spec) Name() string { return strings.Join(s.columns, PairSep) }

// String implements fmt.Stringer
func (s Spec) String() string { return s.Name() }

// key holds one value, or two for a pair; arity is fixed by the table's spec
type key [2]string

// Entry is one distinct value (or value pair) and its occurrence count
type Entry struct {
	Values []string
	Count  int
}

// Label renders the value for output: the value itself, or "(a, b)" for a pair
func (e Entry) Label() string {
	if len(e.Values) == 1 {
		return e.Values[0]
	}
	return "(" + strings.Join(e.Values, ", ") + ")"
}

// Table is a census: distinct values mapped to occurrence counts
type Table struct {
	spec   Spec
	counts map[key]int
	total  int
}

// Tally counts values of cols, which must hold one sequence per spec column.
// Pair sequences are combined positionally and must have equal length
func Tally(spec Spec, cols ...[]string) (*Table, error) {
	if len(spec.columns) == 0 || len(cols) != len(spec.columns) {
		return nil, perr.InvalidArgf("census %q: got %d value sequences for %d columns", spec.Name(), len(cols), len(spec.columns))
	}
	if spec.Paired() && len(cols[0]) != len(cols[1]) {
		return nil, perr.SchemaMismatchf("census %q: column %q has %d values but %q has %d",
			spec.Name(), spec.columns[0], len(cols[0]), spec.columns[1], len(cols[1]))
	}

	t := &Table{spec: spec, counts: make(map[key]int, len(cols[0])/2+1)}
	for i, v := range cols[0] {
		k := key{v}
		if spec.Paired() {
			k[1] = cols[1][i]
		}
		t.counts[k]++
		t.total++
	}
	return t, nil
}

// Spec returns the spec the table was built for
func (t *Table) Spec() Spec { return t.spec }

// Len is the number of distinct values
func (t *Table) Len() int { return len(t.counts) }

// Total is the sum of all counts, i.e. the number of rows tallied
func (t *Table) Total() int { return t.total }

// Count returns the occurrences of a value (two values for a pair), 0 if absent
func (t *Table) Count(values ...string) int {
	k, ok := t.keyOf(values)
	if !ok {
		return 0
	}
	return t.counts[k]
}

// Has reports whether a value (two values for a pair) was observed
func (t *Table) Has(values ...string) bool { return t.Count(values...) > 0 }

func (t *Table) keyOf(values []string) (key, bool) {
	if len(values) != len(t.spec.columns) {
		return key{}, false
	}
	var k key
	copy(k[:], values)
	return k, true
}

// Entries returns every distinct value with its count, sorted by value.
// Pairs sort by first then second element
func (t *Table) Entries() []Entry {
	n := len(t.spec.columns)
	out := make([]Entry, 0, len(t.counts))
	for k, c := range t.counts {
		out = append(out, Entry{Values: slices.Clone(k[:n]), Count: c})
	}
	slices.SortFunc(out, func(a, b Entry) int { return slices.Compare(a.Values, b.Values) })
	return out
}

// Keys returns the distinct values in Entries order
func (t *Table) Keys() [][]string {
	es := t.Entries()
	out := make([][]string, len(es))
	for i, e := range es {
		out[i] = e.Values
	}
	return out
}

// FindMissing returns the expected ids that never appear in observed, in
// expected order; an id listed twice and absent is reported twice
func FindMissing(expected []string, observed *Table) []string {
	missing := make([]string, 0)
	for _, id := range expected {
		if observed == nil || !observed.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}
