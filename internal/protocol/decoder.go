package protocol

import (
	"fmt"
	"strings"
)

// Decode method names, reported on every result so callers can tell which
// grammar produced it.
const (
	MethodSections = "sections"
	MethodJSON     = "json"
)

// Section names of the primary grammar.
const (
	sectionElements  = "ELEMENTS"
	sectionTokens    = "TOKENS"
	sectionVariants  = "VARIANTS"
	sectionComponent = "COMPONENT"
	sectionStyles    = "STYLES"
	sectionUsage     = "USAGE"
	sectionSkip      = "SKIP"
)

// section is one delimited region of a reply: everything between its
// opening marker and the next marker of any name, or end of input.
type section struct {
	name string
	body string
}

// splitSections scans the reply for marker lines of the exact form
// ---NAME--- and returns the delimited sections in order. Markers are
// matched literally and case-sensitively; there is no nesting. Zero
// sections means the reply does not speak the primary grammar.
func splitSections(raw string) []section {
	var sections []section
	var current *section
	var body []string

	flush := func() {
		if current != nil {
			current.body = strings.Join(body, "\n")
			sections = append(sections, *current)
		}
		current = nil
		body = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		if name, ok := markerName(line); ok {
			flush()
			current = &section{name: name}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// markerName reports whether the line is a section marker and, if so, its
// name. A marker is a line of exactly ---NAME--- with a non-empty name that
// contains no further dashes-runs peculiarity; surrounding whitespace is
// tolerated because completion services pad lines unpredictably.
func markerName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 7 || !strings.HasPrefix(trimmed, "---") || !strings.HasSuffix(trimmed, "---") {
		return "", false
	}
	name := trimmed[3 : len(trimmed)-3]
	if name == "" || strings.ContainsAny(name, " \t") || strings.Contains(name, "---") {
		return "", false
	}
	return name, true
}

// findSection returns the first section with the given name.
func findSection(sections []section, name string) (section, bool) {
	for _, s := range sections {
		if s.name == name {
			return s, true
		}
	}
	return section{}, false
}

// ListResult is the tagged outcome of a list-mode decode.
type ListResult struct {
	Records  []ElementRecord
	Method   string
	Warnings []string
}

// DecodeList decodes a reply into element records. Records whose category
// is not in the allow-list are dropped with a warning; a nil allow-list
// admits everything. Duplicate ids among the surviving records are a
// decode error, never a silent merge.
func DecodeList(raw string, allowed CategorySet) (ListResult, error) {
	sections := splitSections(raw)
	if len(sections) == 0 {
		return decodeListJSON(raw, allowed)
	}

	body, ok := findSection(sections, sectionElements)
	if !ok {
		// Single-section replies omit the canonical name often enough
		// that the sole section is taken as the element list.
		if len(sections) != 1 {
			return ListResult{}, decodeErrf("list", "no %s section among %d sections", sectionElements, len(sections))
		}
		body = sections[0]
	}

	result := ListResult{Method: MethodSections}
	for _, line := range strings.Split(body.body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := splitPipeFields(line)
		rec := ElementRecord{ID: fields["id"], Name: fields["name"], Category: fields["type"]}
		if rec.ID == "" || rec.Name == "" || rec.Category == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("dropped line missing mandatory key: %q", line))
			continue
		}
		if !allowed.Contains(rec.Category) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("dropped %q: category %q not allowed", rec.Name, rec.Category))
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if err := checkDuplicateIDs(result.Records); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// splitPipeFields parses a pipe-delimited run of key:value tokens. Each
// token is split on the FIRST colon only: element ids themselves contain
// colons (id:2606:6342), so a naive split would truncate them.
func splitPipeFields(line string) map[string]string {
	fields := make(map[string]string)
	for _, token := range strings.Split(line, "|") {
		key, value, ok := strings.Cut(token, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}

func checkDuplicateIDs(records []ElementRecord) error {
	seen := make(map[string]string, len(records))
	for _, r := range records {
		if prior, dup := seen[r.ID]; dup {
			return decodeErrf("list", "duplicate id %q (%q and %q)", r.ID, prior, r.Name)
		}
		seen[r.ID] = r.Name
	}
	return nil
}

func decodeListJSON(raw string, allowed CategorySet) (ListResult, error) {
	var records []ElementRecord
	if err := unmarshalEmbedded(raw, &records); err != nil {
		return ListResult{}, decodeErrf("list", "no sections and no embedded JSON: %v", err)
	}

	result := ListResult{Method: MethodJSON}
	for _, rec := range records {
		if rec.ID == "" || rec.Name == "" || rec.Category == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("dropped record missing mandatory field: %+v", rec))
			continue
		}
		if !allowed.Contains(rec.Category) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("dropped %q: category %q not allowed", rec.Name, rec.Category))
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if err := checkDuplicateIDs(result.Records); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// RecordResult is the tagged outcome of a record-mode decode.
type RecordResult struct {
	Extraction ExtractionResult
	Method     string
	Warnings   []string
}

// DecodeRecord decodes a token/variant extraction reply.
func DecodeRecord(raw string) (RecordResult, error) {
	sections := splitSections(raw)
	if len(sections) == 0 {
		var extraction ExtractionResult
		if err := unmarshalEmbedded(raw, &extraction); err != nil {
			return RecordResult{}, decodeErrf("record", "no sections and no embedded JSON: %v", err)
		}
		if extraction.Tokens == nil {
			extraction.Tokens = map[string]string{}
		}
		return RecordResult{Extraction: extraction, Method: MethodJSON}, nil
	}

	tokens, hasTokens := findSection(sections, sectionTokens)
	variants, hasVariants := findSection(sections, sectionVariants)
	if !hasTokens && !hasVariants {
		return RecordResult{}, decodeErrf("record", "neither %s nor %s section present", sectionTokens, sectionVariants)
	}

	result := RecordResult{Method: MethodSections}
	result.Extraction.Tokens = map[string]string{}

	if hasTokens {
		for _, line := range strings.Split(tokens.body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			key, value, ok := strings.Cut(line, ":")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				result.Warnings = append(result.Warnings, fmt.Sprintf("dropped malformed token line: %q", line))
				continue
			}
			result.Extraction.Tokens[key] = strings.TrimSpace(value)
		}
	}

	if hasVariants {
		for _, line := range strings.Split(variants.body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			fields := splitPipeFields(line)
			if fields["name"] == "" {
				result.Warnings = append(result.Warnings, fmt.Sprintf("dropped variant line without name: %q", line))
				continue
			}
			result.Extraction.Variants = append(result.Extraction.Variants, VariantRecord{
				Name:        fields["name"],
				Description: fields["description"],
				StyleValues: splitStylePairs(fields["styles"]),
			})
		}
	}

	return result, nil
}

// splitStylePairs parses "prop=value;prop=value" into a map. Empty input
// yields an empty, non-nil map so variants always carry a usable map.
func splitStylePairs(raw string) map[string]string {
	styles := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		styles[key] = strings.TrimSpace(value)
	}
	return styles
}

// GenerationOutcome is the tagged outcome of a generation-mode decode.
type GenerationOutcome struct {
	Generation GenerationResult
	Method     string
	Warnings   []string
}

// DecodeGeneration decodes an artifact-generation reply. A SKIP section (or
// skip:true in the JSON fallback) wins over any component body, with a
// warning when both are present; a reply with neither is a decode failure.
func DecodeGeneration(raw string) (GenerationOutcome, error) {
	sections := splitSections(raw)
	if len(sections) == 0 {
		return decodeGenerationJSON(raw)
	}

	outcome := GenerationOutcome{Method: MethodSections}

	skip, hasSkip := findSection(sections, sectionSkip)
	component, hasComponent := findSection(sections, sectionComponent)

	if hasSkip {
		if hasComponent {
			outcome.Warnings = append(outcome.Warnings, "reply carries both SKIP and COMPONENT; honoring SKIP")
		}
		outcome.Generation = GenerationResult{Skipped: true, Reason: strings.TrimSpace(skip.body)}
		return outcome, nil
	}

	if !hasComponent || strings.TrimSpace(component.body) == "" {
		return GenerationOutcome{}, decodeErrf("generation", "no %s or %s section", sectionComponent, sectionSkip)
	}

	outcome.Generation.ArtifactBody = strings.TrimSpace(component.body)
	if styles, ok := findSection(sections, sectionStyles); ok {
		outcome.Generation.StyleSheetBody = strings.TrimSpace(styles.body)
	}
	if usage, ok := findSection(sections, sectionUsage); ok {
		outcome.Generation.UsageExample = strings.TrimSpace(usage.body)
	}
	return outcome, nil
}

func decodeGenerationJSON(raw string) (GenerationOutcome, error) {
	var gen GenerationResult
	if err := unmarshalEmbedded(raw, &gen); err != nil {
		return GenerationOutcome{}, decodeErrf("generation", "no sections and no embedded JSON: %v", err)
	}

	outcome := GenerationOutcome{Method: MethodJSON}
	if gen.Skipped {
		if gen.ArtifactBody != "" {
			outcome.Warnings = append(outcome.Warnings, "skipped result carried an artifact body; discarding it")
		}
		outcome.Generation = GenerationResult{Skipped: true, Reason: gen.Reason}
		return outcome, nil
	}
	if gen.ArtifactBody == "" {
		return GenerationOutcome{}, decodeErrf("generation", "embedded JSON has neither skip nor component body")
	}
	outcome.Generation = gen
	return outcome, nil
}
