package validate

import (
	"testing"

	perr "plannedobs/internal/platform/errors"
	kit "plannedobs/internal/platform/testkit"
)

type sample struct {
	URL       string   `env:"ARCHIVE_URL" validate:"required,url"`
	Threshold int64    `env:"THRESHOLD" validate:"gt=0"`
	Columns   []string `env:"CENSUS_COLUMNS" validate:"min=1,dive,column_spec"`
}

func TestStructOK(t *testing.T) {
	s := sample{URL: "https://mast.stsci.edu", Threshold: 50000, Columns: []string{"proposal_id", "s_ra+s_dec"}}
	if err := Struct(s); err != nil {
		t.Fatalf("Struct() = %v, want nil", err)
	}
}

func TestStructReportsEveryField(t *testing.T) {
	err := Struct(sample{URL: "not a url", Threshold: 0, Columns: []string{"a+"}})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("code = %v, want validation (%v)", perr.CodeOf(err), err)
	}
	msg := err.Error()
	kit.MustContain(t, msg, "ARCHIVE_URL")
	kit.MustContain(t, msg, "THRESHOLD")
	kit.MustContain(t, msg, "must be a column name or a pair written a+b")
}

func TestStructInvalidTarget(t *testing.T) {
	if err := Struct(42); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("Struct(non-struct) code = %v", perr.CodeOf(err))
	}
}

func TestValidColumnSpec(t *testing.T) {
	cases := map[string]bool{
		"proposal_id": true,
		"s_ra+s_dec":  true,
		"":            false,
		"  ":          false,
		"+s_dec":      false,
		"s_ra+":       false,
		"a+b+c":       false,
	}
	for in, want := range cases {
		if got := ValidColumnSpec(in); got != want {
			t.Fatalf("ValidColumnSpec(%q) = %v, want %v", in, got, want)
		}
	}
}
