package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

func TestReporter_DryRunLine(t *testing.T) {
	var out, errOut bytes.Buffer
	rep := NewReporter(&out, &errOut, false)
	rep.Outcome(Outcome{Kind: OutcomeDryRun, From: "/d/A.txt", To: "/d/a.txt"})

	want := "[DRY RUN] Would rename /d/A.txt to /d/a.txt\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if rep.Log() != want {
		t.Errorf("log = %q, want %q", rep.Log(), want)
	}
}

func TestReporter_Verbose(t *testing.T) {
	tests := []struct {
		verbose bool
		want    string
	}{
		{false, ""},
		{true, "No changes for /d/a.txt\nRenamed /d/B.txt to /d/b.txt\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		rep := NewReporter(&out, &bytes.Buffer{}, tt.verbose)
		rep.Outcome(Outcome{Kind: OutcomeUnchanged, From: "/d/a.txt"})
		rep.Outcome(Outcome{Kind: OutcomeRenamed, From: "/d/B.txt", To: "/d/b.txt"})
		if out.String() != tt.want {
			t.Errorf("verbose=%v: output = %q, want %q", tt.verbose, out.String(), tt.want)
		}
		s := rep.Summary()
		if s.Unchanged != 1 || s.Renamed != 1 {
			t.Errorf("verbose=%v: summary = %+v", tt.verbose, s)
		}
	}
}

func TestReporter_PrintSummary(t *testing.T) {
	var out bytes.Buffer
	rep := NewReporter(&out, &bytes.Buffer{}, false)
	rep.Outcome(Outcome{Kind: OutcomeRenamed, From: "a", To: "b"})
	rep.Failure(&CollisionError{Path: "c"})
	rep.PrintSummary(false)

	got := out.String()
	for _, want := range []string{"--- Summary ---", "Renamed: 1", "Unchanged: 0", "Failed: 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Skipped") {
		t.Errorf("zero skipped count should be omitted:\n%s", got)
	}
}

func TestReporter_WriteReport(t *testing.T) {
	fsys := afero.NewMemMapFs()
	rep := NewReporter(&bytes.Buffer{}, &bytes.Buffer{}, false)
	rep.Outcome(Outcome{Kind: OutcomeDryRun, From: "/d/A.txt", To: "/d/a.txt"})
	rep.Failure(&CollisionError{Path: "/d/b.txt"})
	rep.Failure(&IOError{Path: "/d/C.txt", Err: errEmptyName})

	cfg := &Config{Mode: CaseMode(ModeLowercase), Paths: []string{"/d"}, DryRun: true}
	if err := rep.WriteReport(fsys, "/report.yaml", cfg); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fsys, "/report.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var doc runReport
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid YAML: %v\n%s", err, data)
	}
	if doc.Mode != "lowercase" || !doc.DryRun {
		t.Errorf("header = %q dry_run=%v", doc.Mode, doc.DryRun)
	}
	if doc.Summary.Previewed != 1 || doc.Summary.Failed != 2 {
		t.Errorf("summary = %+v", doc.Summary)
	}
	if len(doc.Files) != 3 {
		t.Fatalf("files = %+v", doc.Files)
	}
	if doc.Files[0].Status != "dry-run" || doc.Files[0].To != "/d/a.txt" {
		t.Errorf("first entry = %+v", doc.Files[0])
	}
	if doc.Files[1].Status != "failed" || doc.Files[1].To != "/d/b.txt" {
		t.Errorf("collision entry = %+v", doc.Files[1])
	}
	if doc.Files[2].From != "/d/C.txt" || doc.Files[2].Error == "" {
		t.Errorf("io entry = %+v", doc.Files[2])
	}
}
