// Package protocol decodes completion-service replies into structured
// records. Replies are expected to follow a delimited-section mini protocol
// (marker lines of the form ---NAME---); when no markers are present the
// decoder falls back to extracting embedded JSON. Decoding is pure: same
// input bytes, same output, no I/O.
package protocol

// ElementRecord is one discovered UI element: an atom of the discovery
// stage. Category must belong to the caller-supplied allow-list or the
// record is dropped during decoding.
type ElementRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"type"`
}

// VariantRecord describes one visual variant of a component.
type VariantRecord struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	StyleValues map[string]string `json:"styles"`
}

// ExtractionResult holds the design tokens and variants extracted for one
// representative element.
type ExtractionResult struct {
	Tokens   map[string]string `json:"tokens"`
	Variants []VariantRecord   `json:"variants"`
}

// GenerationResult is the outcome of one artifact-generation call. The two
// states are mutually exclusive: Skipped carries only a reason, a
// non-skipped result always carries an artifact body.
type GenerationResult struct {
	Skipped        bool   `json:"skip"`
	Reason         string `json:"reason,omitempty"`
	ArtifactBody   string `json:"component,omitempty"`
	StyleSheetBody string `json:"styles,omitempty"`
	UsageExample   string `json:"usage,omitempty"`
}

// CategorySet is the closed set of element categories the materializer can
// render. Built once at start-up, read-only afterward.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from a list of category names.
func NewCategorySet(categories []string) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

// Contains reports whether the category is in the set. A nil set admits
// everything, which is what section decoding (no allow-list) relies on.
func (s CategorySet) Contains(category string) bool {
	if s == nil {
		return true
	}
	_, ok := s[category]
	return ok
}
