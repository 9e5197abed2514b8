package main

// OutcomeKind classifies what happened to a single file.
type OutcomeKind int

const (
	OutcomeRenamed OutcomeKind = iota
	OutcomeUnchanged
	OutcomeDryRun
	OutcomeSkipped
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRenamed:
		return "renamed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the successful result of processing one file. From and To are
// set for renames and dry-run previews; Unchanged and Skipped only set From.
type Outcome struct {
	Kind OutcomeKind
	From string
	To   string
}

// Summary holds aggregated counts for a run.
type Summary struct {
	Renamed   int
	Previewed int
	Unchanged int
	Skipped   int
	Failed    int
}

func (s *Summary) add(o Outcome) {
	switch o.Kind {
	case OutcomeRenamed:
		s.Renamed++
	case OutcomeDryRun:
		s.Previewed++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeSkipped:
		s.Skipped++
	}
}
