package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uiforge/internal/design"
	"uiforge/internal/materialize"
	"uiforge/internal/protocol"
)

// Materializer is the orchestrator's write boundary. The real
// implementation lives in internal/materialize.
type Materializer interface {
	Write(ctx context.Context, req materialize.Request) error
}

// Config wires an orchestrator. AllowedElements is the closed set of
// element categories the materializer can render; it is threaded through
// explicitly and never mutated after construction.
type Config struct {
	Fetcher         design.Fetcher
	Runner          *StageRunner
	Materializer    Materializer
	AllowedElements []string
	Logger          *zap.Logger
}

// Orchestrator sequences the six stages of a run. It is single-threaded
// and cooperative: one stage, one completion call, one decode at a time,
// and all writes for group i finish before group i+1 starts.
type Orchestrator struct {
	fetcher      design.Fetcher
	runner       *StageRunner
	materializer Materializer
	allowed      []string
	logger       *zap.Logger
}

// New creates an orchestrator from its wired collaborators.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		fetcher:      cfg.Fetcher,
		runner:       cfg.Runner,
		materializer: cfg.Materializer,
		allowed:      cfg.AllowedElements,
		logger:       logger,
	}
}

// Run executes one full pipeline run for the given reference string. The
// returned error is non-nil only for the fatal preconditions (here: an
// unparseable reference); every other failure is absorbed into the report
// and the run still reaches Done.
//
// Bounded-work policy: only the first classified section is processed,
// and within it one representative per element category. Everything else
// is recorded as deferred. Callers wanting full coverage run the pipeline
// once per section.
func (o *Orchestrator) Run(ctx context.Context, rawRef string) (*RunReport, error) {
	ref, err := design.ParseReference(rawRef)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:     uuid.NewString(),
		Reference: ref.String(),
		StartedAt: time.Now(),
	}
	o.logger.Info("pipeline run starting",
		zap.String("run_id", report.RunID),
		zap.String("reference", report.Reference))

	root := o.locate(ctx, ref, report)
	sections := o.classify(ctx, root, report)
	elements := o.discover(ctx, root, sections, report)

	groups := GroupByCategory(elements)
	for _, group := range groups {
		o.processGroup(ctx, group, root, report)
	}

	o.summarize(report)
	return report, nil
}

// locate fetches the referenced subtree. A fetch failure is treated the
// same as an empty response: the run continues with nothing to classify.
func (o *Orchestrator) locate(ctx context.Context, ref design.Reference, report *RunReport) *design.Node {
	root, err := o.fetcher.Fetch(ctx, ref)
	if err != nil {
		o.recordFailure(report, stageErr(StageLocate, err), nil)
		return nil
	}
	o.record(report, StageLocate, StatusOK, fmt.Sprintf("fetched %q (%d nodes)", root.Name, root.CountNodes()), nil)
	return root
}

func (o *Orchestrator) classify(ctx context.Context, root *design.Node, report *RunReport) []SectionRecord {
	if root == nil {
		o.record(report, StageClassify, StatusEmpty, "nothing fetched", nil)
		return nil
	}

	sections, warnings, serr := o.runner.ClassifySections(ctx, root)
	if serr != nil {
		o.recordFailure(report, serr, warnings)
		return nil
	}
	if len(sections) == 0 {
		o.record(report, StageClassify, StatusEmpty, "no sections classified", warnings)
		return nil
	}

	report.Sections = sections
	if len(sections) > 1 {
		report.DeferredSections = sections[1:]
	}
	o.record(report, StageClassify, StatusOK, fmt.Sprintf("%d section(s), processing first", len(sections)), warnings)
	return sections
}

func (o *Orchestrator) discover(ctx context.Context, root *design.Node, sections []SectionRecord, report *RunReport) []protocol.ElementRecord {
	if len(sections) == 0 {
		o.record(report, StageDiscover, StatusEmpty, "no section to scan", nil)
		return nil
	}

	first := sections[0]
	node := root.Find(first.ID)
	elements, warnings, serr := o.runner.DiscoverElements(ctx, first, node, o.allowed)
	if serr != nil {
		o.recordFailure(report, serr, warnings)
		return nil
	}
	if len(elements) == 0 {
		o.record(report, StageDiscover, StatusEmpty, fmt.Sprintf("no allow-listed elements in %q", first.Name), warnings)
		return nil
	}

	o.record(report, StageDiscover, StatusOK, fmt.Sprintf("%d element(s) in %q", len(elements), first.Name), warnings)
	return elements
}

// processGroup runs extraction, generation, and materialization for one
// group. Each step's failure degrades to a neutral result; the group still
// produces its metadata record.
func (o *Orchestrator) processGroup(ctx context.Context, group ComponentGroup, root *design.Node, report *RunReport) {
	rep := group.Representative
	derived := materialize.DeriveName(rep.Name)

	node := root.Find(rep.ID)
	if node == nil {
		// The model may discover ids the tree does not carry; extraction
		// then works from a one-node stand-in.
		node = &design.Node{ID: rep.ID, Name: rep.Name, Type: rep.Category}
	}

	extraction, warnings, serr := o.runner.ExtractProperties(ctx, rep, node)
	if serr != nil {
		o.recordFailure(report, serr, warnings)
	} else {
		o.record(report, StageExtract, StatusOK,
			fmt.Sprintf("%s: %d token(s), %d variant(s)", derived, len(extraction.Tokens), len(extraction.Variants)), warnings)
	}

	generation, warnings, serr := o.runner.GenerateArtifact(ctx, derived, group, extraction)
	if serr != nil {
		o.recordFailure(report, serr, warnings)
	} else {
		o.record(report, StageGenerate, StatusOK, derived, warnings)
	}

	groupReport := GroupReport{
		Category:       group.Category,
		DerivedName:    derived,
		Representative: rep,
		VariantCount:   len(extraction.Variants),
		Skipped:        generation.Skipped,
		Reason:         generation.Reason,
	}
	if len(group.Instances) > 1 {
		groupReport.DeferredInstances = group.Instances[1:]
	}

	err := o.materializer.Write(ctx, materialize.Request{
		RunID:        report.RunID,
		DerivedName:  derived,
		SourceID:     rep.ID,
		Category:     group.Category,
		VariantCount: len(extraction.Variants),
		Generation:   generation,
	})
	if err != nil {
		o.recordFailure(report, stageErr(StageGenerate, fmt.Errorf("materialize %s: %w", derived, err)), nil)
	} else if !generation.Skipped {
		report.ArtifactsWritten++
	}

	report.Groups = append(report.Groups, groupReport)
}

func (o *Orchestrator) summarize(report *RunReport) {
	report.FinishedAt = time.Now()
	o.record(report, StageSummarize, StatusOK,
		fmt.Sprintf("%d group(s), %d artifact(s), %d section(s) deferred",
			len(report.Groups), report.ArtifactsWritten, len(report.DeferredSections)), nil)

	for _, line := range report.Lines() {
		o.logger.Info(line)
	}
}

func (o *Orchestrator) record(report *RunReport, stage, status, detail string, warnings []string) {
	report.Stages = append(report.Stages, StageStatus{Stage: stage, Status: status, Detail: detail, Warnings: warnings})
	for _, w := range warnings {
		o.logger.Warn("stage warning", zap.String("stage", stage), zap.String("warning", w))
	}
}

func (o *Orchestrator) recordFailure(report *RunReport, serr *StageError, warnings []string) {
	report.Stages = append(report.Stages, StageStatus{
		Stage:    serr.Stage,
		Status:   StatusFailed,
		Detail:   serr.Err.Error(),
		Warnings: warnings,
	})
	o.logger.Warn("stage failed, continuing", zap.String("stage", serr.Stage), zap.Error(serr.Err))
}
