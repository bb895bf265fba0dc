package config

// OutputConfig configures where artifacts, templates, and metadata live.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	TemplateDir string `yaml:"template_dir"` // optional on-disk prompt overrides
	StorePath   string `yaml:"store_path"`
}
