package config

// LLMConfig configures the completion service.
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DesignConfig configures the design-document service.
type DesignConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"` // empty selects the production endpoint
}
