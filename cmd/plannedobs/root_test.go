package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	perr "plannedobs/internal/platform/errors"
	kit "plannedobs/internal/platform/testkit"
)

func fakeArchive(t *testing.T, count int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if strings.Contains(r.PostForm.Get("request"), "COUNT_BIG") {
			fmt.Fprintf(w, `{"fields":[{"name":"Column1"}],"data":[{"Column1":%d}]}`, count)
			return
		}
		fmt.Fprint(w, `{"fields":[{"name":"proposal_id"},{"name":"s_ra"}],"data":[{"proposal_id":"1034","s_ra":10.5}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"version"}, &out); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out.String(), `"name": "plannedobs"`)
}

func TestHelpExplainsEnvPrecedence(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"--help"}, &out); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out.String(), "The env value wins unless")
	kit.MustContain(t, out.String(), "PLANNEDOBS_THRESHOLD")
}

func TestFlagOverridesEnv(t *testing.T) {
	t.Setenv("PLANNEDOBS_THRESHOLD", "1")
	var out bytes.Buffer
	code := run([]string{"collect", "--archive-url", fakeArchive(t, 1), "--threshold", "2",
		"--results-file", filepath.Join(t.TempDir(), "res.csv")}, &out)
	if code != 0 {
		t.Fatalf("exit = %d, want flag threshold to win over env", code)
	}
}

func TestEnvWinsOverFlagDefault(t *testing.T) {
	t.Setenv("PLANNEDOBS_THRESHOLD", "1")
	var out bytes.Buffer
	code := run([]string{"collect", "--archive-url", fakeArchive(t, 1),
		"--results-file", filepath.Join(t.TempDir(), "res.csv")}, &out)
	if want := perr.ExitStatus(perr.ErrorCodeThresholdExceeded); code != want {
		t.Fatalf("exit = %d, want %d from env threshold", code, want)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	results := filepath.Join(dir, "res.csv")
	var out bytes.Buffer
	code := run([]string{"collect", "--archive-url", fakeArchive(t, 1), "--results-file", results}, &out)
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out.String(), "1 rows written to "+results)
	if got := kit.ReadFile(t, results); got != "proposal_id,s_ra\n1034,10.5\n" {
		t.Fatalf("csv = %q", got)
	}
}

func TestCollectThresholdExitCode(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"collect", "--archive-url", fakeArchive(t, 5), "--threshold", "5",
		"--results-file", filepath.Join(t.TempDir(), "res.csv")}, &out)
	if want := perr.ExitStatus(perr.ErrorCodeThresholdExceeded); code != want {
		t.Fatalf("exit = %d, want %d", code, want)
	}
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	in := kit.WriteFile(t, dir, "in.csv", "proposal_id,s_ra,s_dec\n1034,1,2\n1034,1,2\n")
	ref := kit.WriteFile(t, dir, "ref.csv", "1034\n4242\n")

	var out bytes.Buffer
	code := run([]string{
		"--analyze-file", in, "--reference-file", ref, "--output-dir", dir,
		"--census", "proposal_id,s_ra+s_dec",
	}, &out)
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out.String(), "missing 1 of 2 reference ids\n4242\n")
	if got := kit.ReadFile(t, filepath.Join(dir, "s_ra+s_dec.csv")); got != "s_ra+s_dec,occurrences\n\"(1, 2)\",2\n" {
		t.Fatalf("pair census = %q", got)
	}
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		args []string
		want int
	}{
		{"missing analyze file", []string{"--analyze-file", filepath.Join(dir, "nope.csv"), "--output-dir", dir}, perr.ExitStatus(perr.ErrorCodeFileNotFound)},
		{"bad census flag", []string{"--census", "proposal_id,a+", "--output-dir", dir}, perr.ExitStatus(perr.ErrorCodeValidation)},
		{"unknown flag", []string{"--nope"}, perr.ExitStatus(perr.ErrorCodeInvalidArgument)},
		{"stray argument", []string{"collect", "extra"}, perr.ExitStatus(perr.ErrorCodeInvalidArgument)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := run(c.args, &bytes.Buffer{}); got != c.want {
				t.Fatalf("exit = %d, want %d", got, c.want)
			}
		})
	}
}
