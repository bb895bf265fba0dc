package pipeline

import (
	"fmt"
	"time"

	"uiforge/internal/protocol"
)

// Stage outcome labels used in the run report.
const (
	StatusOK     = "ok"
	StatusEmpty  = "empty"
	StatusFailed = "failed"
)

// StageStatus is one line of run progress: which stage, how it ended, and
// any record-level warnings it produced.
type StageStatus struct {
	Stage    string   `json:"stage"`
	Status   string   `json:"status"`
	Detail   string   `json:"detail,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// GroupReport summarizes one component group's trip through extraction,
// generation and materialization.
type GroupReport struct {
	Category          string                   `json:"category"`
	DerivedName       string                   `json:"derived_name"`
	Representative    protocol.ElementRecord   `json:"representative"`
	DeferredInstances []protocol.ElementRecord `json:"deferred_instances,omitempty"`
	VariantCount      int                      `json:"variant_count"`
	Skipped           bool                     `json:"skipped"`
	Reason            string                   `json:"reason,omitempty"`
}

// RunReport is the full record of one pipeline run: ordered stage
// progress, the classified sections, what was deferred for future runs,
// and the per-group outcomes.
type RunReport struct {
	RunID            string          `json:"run_id"`
	Reference        string          `json:"reference"`
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       time.Time       `json:"finished_at"`
	Stages           []StageStatus   `json:"stages"`
	Sections         []SectionRecord `json:"sections,omitempty"`
	DeferredSections []SectionRecord `json:"deferred_sections,omitempty"`
	Groups           []GroupReport   `json:"groups,omitempty"`
	ArtifactsWritten int             `json:"artifacts_written"`
}

// Lines renders the ordered, human-readable run log.
func (r *RunReport) Lines() []string {
	lines := []string{fmt.Sprintf("run %s for %s", r.RunID, r.Reference)}

	for _, st := range r.Stages {
		line := fmt.Sprintf("  [%s] %s", st.Status, st.Stage)
		if st.Detail != "" {
			line += ": " + st.Detail
		}
		lines = append(lines, line)
		for _, w := range st.Warnings {
			lines = append(lines, "      warning: "+w)
		}
	}

	for _, g := range r.Groups {
		outcome := "generated"
		if g.Skipped {
			outcome = "skipped (" + g.Reason + ")"
		}
		lines = append(lines, fmt.Sprintf("  group %s -> %s: %s, %d deferred instance(s)",
			g.Category, g.DerivedName, outcome, len(g.DeferredInstances)))
	}

	if len(r.DeferredSections) > 0 {
		lines = append(lines, fmt.Sprintf("  %d section(s) deferred for future runs", len(r.DeferredSections)))
	}
	lines = append(lines, fmt.Sprintf("  %d artifact(s) written", r.ArtifactsWritten))
	return lines
}
