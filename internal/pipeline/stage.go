package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"uiforge/internal/design"
	"uiforge/internal/llm"
	"uiforge/internal/prompt"
	"uiforge/internal/protocol"
)

// StageRunner executes exactly one stage at a time: render the stage
// prompt, make one completion call, decode the reply. It never retries and
// never aborts the run; failures come back as a *StageError next to the
// stage's neutral zero result.
type StageRunner struct {
	client    llm.Client
	templates *prompt.Library
	logger    *zap.Logger
}

// NewStageRunner wires a runner. A nil logger is replaced with a no-op.
func NewStageRunner(client llm.Client, templates *prompt.Library, logger *zap.Logger) *StageRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageRunner{client: client, templates: templates, logger: logger}
}

// ask renders the named template with vars and makes the single completion
// call for the stage.
func (r *StageRunner) ask(ctx context.Context, stage, template string, vars map[string]string) (string, *StageError) {
	body, err := r.templates.Load(template)
	if err != nil {
		return "", stageErr(stage, err)
	}

	rendered := prompt.Render(body, vars)
	reply, err := r.client.Complete(ctx, rendered)
	if err != nil {
		return "", stageErr(stage, fmt.Errorf("completion call: %w", err))
	}
	return reply, nil
}

// ClassifySections produces one record per top-level child of the root,
// in source order. Unknown categories normalize to generic-section.
func (r *StageRunner) ClassifySections(ctx context.Context, root *design.Node) ([]SectionRecord, []string, *StageError) {
	if root == nil || len(root.Children) == 0 {
		return nil, nil, nil
	}

	reply, serr := r.ask(ctx, StageClassify, prompt.TemplateClassifySections, map[string]string{
		"SECTION_LIST": strings.Join(root.ChildSummaries(), "\n"),
	})
	if serr != nil {
		return nil, nil, serr
	}

	decoded, err := protocol.DecodeList(reply, nil)
	if err != nil {
		return nil, nil, stageErr(StageClassify, err)
	}

	sections := make([]SectionRecord, 0, len(decoded.Records))
	for _, rec := range decoded.Records {
		sections = append(sections, SectionRecord{
			ID:       rec.ID,
			Name:     rec.Name,
			Category: NormalizeSectionCategory(rec.Category),
		})
	}
	return sections, decoded.Warnings, nil
}

// DiscoverElements scans one section's subtree for reusable elements.
// Records outside the allow-list never come back: the decoder drops them.
func (r *StageRunner) DiscoverElements(ctx context.Context, section SectionRecord, node *design.Node, allowed []string) ([]protocol.ElementRecord, []string, *StageError) {
	if node == nil {
		return nil, nil, stageErr(StageDiscover, fmt.Errorf("section node %s not present in fetched tree", section.ID))
	}

	reply, serr := r.ask(ctx, StageDiscover, prompt.TemplateDiscoverElements, map[string]string{
		"SECTION_NAME":  section.Name,
		"NODE_TREE":     node.Outline(),
		"ALLOWED_TYPES": strings.Join(allowed, ", "),
	})
	if serr != nil {
		return nil, nil, serr
	}

	decoded, err := protocol.DecodeList(reply, protocol.NewCategorySet(allowed))
	if err != nil {
		return nil, nil, stageErr(StageDiscover, err)
	}
	return decoded.Records, decoded.Warnings, nil
}

// ExtractProperties pulls design tokens and variants for one
// representative element.
func (r *StageRunner) ExtractProperties(ctx context.Context, rep protocol.ElementRecord, node *design.Node) (protocol.ExtractionResult, []string, *StageError) {
	neutral := protocol.ExtractionResult{Tokens: map[string]string{}}

	vars := map[string]string{
		"ELEMENT_NAME": rep.Name,
		"ELEMENT_ID":   rep.ID,
		"CATEGORY":     rep.Category,
		"NODE_TREE":    node.Outline(),
	}
	reply, serr := r.ask(ctx, StageExtract, prompt.TemplateExtractProperties, vars)
	if serr != nil {
		return neutral, nil, serr
	}

	decoded, err := protocol.DecodeRecord(reply)
	if err != nil {
		return neutral, nil, stageErr(StageExtract, err)
	}
	return decoded.Extraction, decoded.Warnings, nil
}

// GenerateArtifact asks for the component source of one representative.
// On any failure the neutral result is an explicit skip, so the
// materializer still records the group.
func (r *StageRunner) GenerateArtifact(ctx context.Context, derivedName string, group ComponentGroup, extraction protocol.ExtractionResult) (protocol.GenerationResult, []string, *StageError) {
	neutral := protocol.GenerationResult{Skipped: true, Reason: "generation stage failed"}

	vars := map[string]string{
		"COMPONENT_NAME": derivedName,
		"CATEGORY":       group.Category,
		"TOKENS":         tokensAsLines(extraction.Tokens),
		"VARIANTS":       variantsAsLines(extraction.Variants),
	}
	reply, serr := r.ask(ctx, StageGenerate, prompt.TemplateGenerateArtifact, vars)
	if serr != nil {
		return neutral, nil, serr
	}

	decoded, err := protocol.DecodeGeneration(reply)
	if err != nil {
		return neutral, nil, stageErr(StageGenerate, err)
	}
	return decoded.Generation, decoded.Warnings, nil
}

// tokensAsLines renders tokens as sorted key:value lines so the same
// extraction always produces the same prompt.
func tokensAsLines(tokens map[string]string) string {
	if len(tokens) == 0 {
		return "(none extracted)"
	}
	keys := make([]string, 0, len(tokens))
	for k := range tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+":"+tokens[k])
	}
	return strings.Join(lines, "\n")
}

func variantsAsLines(variants []protocol.VariantRecord) string {
	if len(variants) == 0 {
		return "(none extracted)"
	}
	lines := make([]string, 0, len(variants))
	for _, v := range variants {
		styles := make([]string, 0, len(v.StyleValues))
		for k := range v.StyleValues {
			styles = append(styles, k)
		}
		sort.Strings(styles)
		for i, k := range styles {
			styles[i] = k + "=" + v.StyleValues[k]
		}
		lines = append(lines, "name:"+v.Name+"|description:"+v.Description+"|styles:"+strings.Join(styles, ";"))
	}
	return strings.Join(lines, "\n")
}
