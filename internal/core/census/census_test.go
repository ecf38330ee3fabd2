package census

import (
	"testing"

	perr "plannedobs/internal/platform/errors"

	"github.com/google/go-cmp/cmp"
)

func TestTallySingleColumn(t *testing.T) {
	tbl, err := Tally(Single("proposal_id"), []string{"P1", "P1", "P2"})
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tbl.Len() != 2 || tbl.Total() != 3 {
		t.Fatalf("Len/Total = %d/%d, want 2/3", tbl.Len(), tbl.Total())
	}
	if tbl.Count("P1") != 2 || tbl.Count("P2") != 1 || tbl.Count("P3") != 0 {
		t.Fatalf("counts wrong: P1=%d P2=%d P3=%d", tbl.Count("P1"), tbl.Count("P2"), tbl.Count("P3"))
	}

	want := []Entry{
		{Values: []string{"P1"}, Count: 2},
		{Values: []string{"P2"}, Count: 1},
	}
	if diff := cmp.Diff(want, tbl.Entries()); diff != "" {
		t.Fatalf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestTallyPairIsPositional(t *testing.T) {
	tbl, err := Tally(Pair("s_ra", "s_dec"), []string{"x", "y"}, []string{"1", "2"})
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tbl.Count("x", "1") != 1 || tbl.Count("y", "2") != 1 {
		t.Fatalf("pair counts wrong")
	}
	if tbl.Count("x", "2") != 0 {
		t.Fatalf("pairs must not cross rows")
	}
	if tbl.Has("x") {
		t.Fatalf("single-value lookup on a paired table must be false")
	}
}

func TestTallyPairSortsFirstThenSecond(t *testing.T) {
	ra := []string{"b", "a", "a", "b", "a"}
	dec := []string{"1", "2", "1", "0", "2"}
	tbl, err := Tally(Pair("s_ra", "s_dec"), ra, dec)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	want := []Entry{
		{Values: []string{"a", "1"}, Count: 1},
		{Values: []string{"a", "2"}, Count: 2},
		{Values: []string{"b", "0"}, Count: 1},
		{Values: []string{"b", "1"}, Count: 1},
	}
	if diff := cmp.Diff(want, tbl.Entries()); diff != "" {
		t.Fatalf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestTallyPairLengthMismatch(t *testing.T) {
	_, err := Tally(Pair("s_ra", "s_dec"), []string{"x", "y"}, []string{"1"})
	if !perr.IsCode(err, perr.ErrorCodeSchemaMismatch) {
		t.Fatalf("code = %v, want schema mismatch (%v)", perr.CodeOf(err), err)
	}
}

func TestTallyArity(t *testing.T) {
	if _, err := Tally(Single("a"), []string{"x"}, []string{"y"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("extra sequence: code = %v", perr.CodeOf(err))
	}
	if _, err := Tally(Spec{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty spec: code = %v", perr.CodeOf(err))
	}
}

func TestTallyEmptyColumn(t *testing.T) {
	tbl, err := Tally(Single("filters"), nil)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tbl.Len() != 0 || tbl.Total() != 0 || len(tbl.Entries()) != 0 {
		t.Fatalf("empty column should give an empty table")
	}
}

// counts always add up to the number of rows and keys to the distinct values
func TestTallyCountsAddUp(t *testing.T) {
	cols := [][]string{
		{"a"},
		{"a", "a", "a"},
		{"c", "b", "a", "b", "c", "c"},
		{"", "", "x"},
	}
	for _, col := range cols {
		tbl, err := Tally(Single("c"), col)
		if err != nil {
			t.Fatalf("Tally: %v", err)
		}
		uniq := map[string]struct{}{}
		for _, v := range col {
			uniq[v] = struct{}{}
		}
		sum := 0
		for _, e := range tbl.Entries() {
			sum += e.Count
		}
		if sum != len(col) || tbl.Total() != len(col) {
			t.Fatalf("%v: sum=%d total=%d, want %d", col, sum, tbl.Total(), len(col))
		}
		if tbl.Len() != len(uniq) {
			t.Fatalf("%v: distinct=%d, want %d", col, tbl.Len(), len(uniq))
		}
	}
}

func TestParseSpec(t *testing.T) {
	cases := []struct {
		in      string
		name    string
		paired  bool
		wantErr bool
	}{
		{in: "proposal_id", name: "proposal_id"},
		{in: " s_ra + s_dec ", name: "s_ra+s_dec", paired: true},
		{in: "", wantErr: true},
		{in: "+dec", wantErr: true},
		{in: "ra+", wantErr: true},
		{in: "a+b+c", wantErr: true},
	}
	for _, c := range cases {
		s, err := ParseSpec(c.in)
		if c.wantErr {
			if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
				t.Fatalf("ParseSpec(%q) err = %v, want invalid argument", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSpec(%q): %v", c.in, err)
		}
		if s.Name() != c.name || s.Paired() != c.paired {
			t.Fatalf("ParseSpec(%q) = %q paired=%v", c.in, s.Name(), s.Paired())
		}
	}
}

func TestSpecColumnsIsACopy(t *testing.T) {
	s := Pair("s_ra", "s_dec")
	cols := s.Columns()
	cols[0] = "mutated"
	if s.Name() != "s_ra+s_dec" {
		t.Fatalf("Columns() leaked internal slice")
	}
	if s.String() != s.Name() {
		t.Fatalf("String() != Name()")
	}
}

func TestEntryLabel(t *testing.T) {
	if got := (Entry{Values: []string{"P1"}}).Label(); got != "P1" {
		t.Fatalf("single Label = %q", got)
	}
	if got := (Entry{Values: []string{"10.5", "-3.2"}}).Label(); got != "(10.5, -3.2)" {
		t.Fatalf("pair Label = %q", got)
	}
}

func TestFindMissing(t *testing.T) {
	observed, err := Tally(Single("proposal_id"), []string{"P1", "P2"})
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}

	cases := []struct {
		name     string
		expected []string
		want     []string
	}{
		{name: "one missing", expected: []string{"P1", "P2", "P3"}, want: []string{"P3"}},
		{name: "order kept", expected: []string{"P9", "P1", "P4"}, want: []string{"P9", "P4"}},
		{name: "duplicates kept", expected: []string{"P3", "P1", "P3"}, want: []string{"P3", "P3"}},
		{name: "none missing", expected: []string{"P2", "P1"}, want: []string{}},
		{name: "empty expected", expected: nil, want: []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if diff := cmp.Diff(c.want, FindMissing(c.expected, observed)); diff != "" {
				t.Fatalf("FindMissing mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindMissingAgainstItself(t *testing.T) {
	ids := []string{"P1", "P2", "P2", "P7"}
	self, err := Tally(Single("proposal_id"), ids)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if got := FindMissing(ids, self); len(got) != 0 {
		t.Fatalf("FindMissing(E, E) = %v, want empty", got)
	}
	if got := FindMissing([]string{"P1"}, nil); len(got) != 1 {
		t.Fatalf("nil census should report every id")
	}
}

func TestKeysFollowEntries(t *testing.T) {
	tbl, err := Tally(Pair("a", "b"), []string{"y", "x", "x"}, []string{"1", "2", "2"})
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	want := [][]string{{"x", "2"}, {"y", "1"}}
	if diff := cmp.Diff(want, tbl.Keys()); diff != "" {
		t.Fatalf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
