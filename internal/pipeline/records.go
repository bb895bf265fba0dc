// Package pipeline drives the fixed six-stage generation run: locate the
// referenced design subtree, classify its sections, discover elements in
// the first section, then extract properties and generate an artifact for
// one representative per element category, and summarize.
//
// Failure policy: only a missing credential or an unparseable reference
// aborts a run. Every other failure is normalized into an empty stage
// result, logged, and the run continues.
package pipeline

import (
	"fmt"

	"uiforge/internal/protocol"
)

// SectionCategory is the closed set of page-section classifications.
type SectionCategory string

const (
	SectionHeader     SectionCategory = "header"
	SectionHero       SectionCategory = "hero"
	SectionNavigation SectionCategory = "navigation"
	SectionContent    SectionCategory = "content"
	SectionFooter     SectionCategory = "footer"
	SectionGeneric    SectionCategory = "generic-section"
)

// NormalizeSectionCategory maps a decoded category onto the closed enum.
// Anything unrecognized becomes generic-section rather than dropping the
// section, since every top-level child must yield exactly one record.
func NormalizeSectionCategory(raw string) SectionCategory {
	switch SectionCategory(raw) {
	case SectionHeader, SectionHero, SectionNavigation, SectionContent, SectionFooter, SectionGeneric:
		return SectionCategory(raw)
	default:
		return SectionGeneric
	}
}

// SectionRecord is one classified top-level child of the referenced root,
// in source order.
type SectionRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category SectionCategory `json:"category"`
}

// ComponentGroup is an equivalence class of discovered elements sharing a
// category. The representative is always the first instance encountered;
// the remaining instances are deferred, never processed this run.
type ComponentGroup struct {
	Category       string                   `json:"category"`
	Representative protocol.ElementRecord   `json:"representative"`
	Instances      []protocol.ElementRecord `json:"instances"`
}

// StageError is the typed, non-fatal failure of one stage. Stages return
// it alongside their neutral zero result; the orchestrator records it and
// keeps going.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// Stage names, in execution order.
const (
	StageLocate    = "locate-reference"
	StageClassify  = "classify-sections"
	StageDiscover  = "discover-elements"
	StageExtract   = "extract-properties"
	StageGenerate  = "generate-artifact"
	StageSummarize = "summarize"
)
