package config

import (
	"fmt"
	"os"
)

const starterFile = `# uiforge configuration
llm:
  # api_key: set here or via GEMINI_API_KEY
  model: gemini-2.0-flash

design:
  # token: set here or via UIFORGE_DESIGN_TOKEN

output:
  dir: generated
  store_path: .uiforge/uiforge.db
  # template_dir: prompts   # optional on-disk prompt overrides

allowed_elements:
  - button
  - input
  - card
  - navbar
  - text
  - image
  - badge
  - form
`

// WriteStarter writes a commented starter config at path unless one
// already exists.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(starterFile), 0644); err != nil {
		return fmt.Errorf("write starter config: %w", err)
	}
	return nil
}
