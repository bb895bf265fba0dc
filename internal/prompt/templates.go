// Package prompt loads the stage prompt templates and renders them with
// {{VAR}} substitution. Templates ship embedded; a library rooted at an
// override directory lets users replace individual templates on disk.
package prompt

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/*.md
var embedded embed.FS

// BodyMarker separates a template's leading documentation prose from the
// prompt body that is actually sent to the completion service.
const BodyMarker = "---PROMPT---"

// Template names, one per pipeline stage that talks to the model.
const (
	TemplateClassifySections  = "classify_sections"
	TemplateDiscoverElements  = "discover_elements"
	TemplateExtractProperties = "extract_properties"
	TemplateGenerateArtifact  = "generate_artifact"
)

// Library resolves template names to prompt bodies.
type Library struct {
	overrideDir string
}

// NewLibrary creates a template library. overrideDir may be empty, in which
// case only the embedded templates are used.
func NewLibrary(overrideDir string) *Library {
	return &Library{overrideDir: overrideDir}
}

// Load returns the prompt body for the named template: the on-disk
// override if one exists, otherwise the embedded default. Everything up to
// and including the first body marker line is stripped; a template without
// a marker is used whole.
func (l *Library) Load(name string) (string, error) {
	filename := name + ".md"

	if l.overrideDir != "" {
		if data, err := os.ReadFile(filepath.Join(l.overrideDir, filename)); err == nil {
			return stripLeadingProse(string(data)), nil
		}
	}

	data, err := embedded.ReadFile("templates/" + filename)
	if err != nil {
		return "", fmt.Errorf("unknown prompt template %q: %w", name, err)
	}
	return stripLeadingProse(string(data)), nil
}

// stripLeadingProse cuts the documentation header above the first body
// marker. Only the first marker counts; a literal marker inside the prompt
// body survives.
func stripLeadingProse(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == BodyMarker {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

// Render substitutes {{KEY}} placeholders with their values. Matching is
// exact and textual; there is no escaping and unknown placeholders are
// left in place so a bad variable set is visible in the outgoing prompt.
func Render(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
