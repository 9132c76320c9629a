package pipeline

import "fmt"

// Entry is one line of the diagnostic report: what a stage did, to how many
// records, and what share of the records that stage saw. The entries, in
// order, are the audit trail a stakeholder cross-checks against a manual
// spreadsheet filter.
type Entry struct {
	Stage   string  `json:"stage"`
	Action  string  `json:"action"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// IssueKind classifies a non-fatal condition captured during a run.
type IssueKind string

const (
	// IssueUnresolvedJoinKeyType marks a join key that could not be coerced
	// to the canonical type. The record became unmatched, not an error.
	IssueUnresolvedJoinKeyType IssueKind = "unresolved_join_key_type"
	// IssueAmbiguousReferenceKey marks a duplicate reference-table key not
	// covered by the known equivalence. First occurrence won.
	IssueAmbiguousReferenceKey IssueKind = "ambiguous_reference_key"
)

// Issue is one recoverable condition. Issues never abort a run; they exist
// so the run can be audited afterwards.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Stage  string    `json:"stage"`
	Detail string    `json:"detail"`
}

// Diagnostics is the stage-by-stage record produced alongside the data
// output. Content is fully determined by the inputs: no run IDs, no
// timestamps, so two runs over the same input produce identical reports.
type Diagnostics struct {
	Entries []Entry      `json:"entries"`
	Issues  []Issue      `json:"issues,omitempty"`
	Stages  []StageState `json:"-"`
}

// Add appends a report entry.
func (d *Diagnostics) Add(stage, action string, count int, percent float64) {
	d.Entries = append(d.Entries, Entry{Stage: stage, Action: action, Count: count, Percent: percent})
}

// AddOf appends a report entry with the percentage computed against a base
// count. A zero base yields zero percent.
func (d *Diagnostics) AddOf(stage, action string, count, base int) {
	percent := 0.0
	if base > 0 {
		percent = float64(count) / float64(base) * 100
	}
	d.Add(stage, action, count, percent)
}

// AddIssue appends a non-fatal issue.
func (d *Diagnostics) AddIssue(kind IssueKind, stage, format string, args ...any) {
	d.Issues = append(d.Issues, Issue{Kind: kind, Stage: stage, Detail: fmt.Sprintf(format, args...)})
}
