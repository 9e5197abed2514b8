package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Reporter prints per-file events as they happen and keeps enough of them to
// produce the summary footer, the YAML report and the clipboard log.
type Reporter struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool

	summary Summary
	entries []reportEntry
	log     strings.Builder
}

// reportEntry is one line of the YAML report.
type reportEntry struct {
	Status string `yaml:"status"`
	From   string `yaml:"from,omitempty"`
	To     string `yaml:"to,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// runReport is the document written by --report.
type runReport struct {
	Mode    string        `yaml:"mode"`
	DryRun  bool          `yaml:"dry_run"`
	Summary reportSummary `yaml:"summary"`
	Files   []reportEntry `yaml:"files"`
}

type reportSummary struct {
	Renamed   int `yaml:"renamed"`
	Previewed int `yaml:"previewed"`
	Unchanged int `yaml:"unchanged"`
	Skipped   int `yaml:"skipped"`
	Failed    int `yaml:"failed"`
}

// NewReporter returns a Reporter writing events to out and warnings to errOut.
func NewReporter(out, errOut io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, errOut: errOut, verbose: verbose}
}

// Outcome records a successful per-file result and prints the matching line.
func (r *Reporter) Outcome(o Outcome) {
	r.summary.add(o)

	var line string
	switch o.Kind {
	case OutcomeDryRun:
		line = fmt.Sprintf("[DRY RUN] Would rename %s to %s", o.From, o.To)
		fmt.Fprintln(r.out, line)
	case OutcomeRenamed:
		line = fmt.Sprintf("Renamed %s to %s", o.From, o.To)
		if r.verbose {
			fmt.Fprintln(r.out, line)
		}
	case OutcomeUnchanged:
		// Fixed points are only reported when verbose.
		if !r.verbose {
			return
		}
		fmt.Fprintf(r.out, "No changes for %s\n", o.From)
	case OutcomeSkipped:
		if r.verbose {
			fmt.Fprintf(r.out, "Skipping path with no usable filename: %s\n", o.From)
		}
	}

	if line != "" {
		r.log.WriteString(line)
		r.log.WriteString("\n")
	}
	r.entries = append(r.entries, reportEntry{Status: o.Kind.String(), From: o.From, To: o.To})
}

// Failure records a per-file error. The error itself is printed by the caller
// once the run has finished.
func (r *Reporter) Failure(err error) {
	r.summary.Failed++
	entry := reportEntry{Status: "failed", Error: err.Error()}
	var ioErr *IOError
	var collErr *CollisionError
	var travErr *TraversalError
	switch {
	case errors.As(err, &ioErr):
		entry.From = ioErr.Path
	case errors.As(err, &collErr):
		entry.To = collErr.Path
	case errors.As(err, &travErr):
		entry.From = travErr.Path
	}
	r.entries = append(r.entries, entry)
}

// Warn prints a non-fatal message to the error stream.
func (r *Reporter) Warn(format string, args ...interface{}) {
	fmt.Fprintf(r.errOut, "Warning: "+format+"\n", args...)
}

// Summary returns the counts accumulated so far.
func (r *Reporter) Summary() Summary {
	return r.summary
}

// PrintSummary writes the footer with aggregated counts.
func (r *Reporter) PrintSummary(dryRun bool) {
	var b strings.Builder
	b.WriteString("\n--- Summary ---\n")
	if dryRun {
		b.WriteString(fmt.Sprintf("Would rename: %d\n", r.summary.Previewed))
	} else {
		b.WriteString(fmt.Sprintf("Renamed: %d\n", r.summary.Renamed))
	}
	b.WriteString(fmt.Sprintf("Unchanged: %d\n", r.summary.Unchanged))
	if r.summary.Skipped > 0 {
		b.WriteString(fmt.Sprintf("Skipped: %d\n", r.summary.Skipped))
	}
	if r.summary.Failed > 0 {
		b.WriteString(fmt.Sprintf("Failed: %d\n", r.summary.Failed))
	}
	fmt.Fprint(r.out, b.String())
}

// WriteReport saves a YAML description of the run to path.
func (r *Reporter) WriteReport(fsys afero.Fs, path string, cfg *Config) error {
	doc := runReport{
		Mode:   cfg.Mode.Kind.String(),
		DryRun: cfg.DryRun,
		Summary: reportSummary{
			Renamed:   r.summary.Renamed,
			Previewed: r.summary.Previewed,
			Unchanged: r.summary.Unchanged,
			Skipped:   r.summary.Skipped,
			Failed:    r.summary.Failed,
		},
		Files: r.entries,
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("error encoding report: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("error writing report %s: %w", path, err)
	}
	return nil
}

// Log returns the rename lines (performed or previewed) in the order they happened.
func (r *Reporter) Log() string {
	return r.log.String()
}

// CopyToClipboard places the rename log on the system clipboard.
func (r *Reporter) CopyToClipboard() error {
	if r.log.Len() == 0 {
		return nil
	}
	if err := clipboard.WriteAll(r.log.String()); err != nil {
		return fmt.Errorf("error writing to clipboard: %w", err)
	}
	return nil
}
