package config

// Config holds chemqa configuration.
// Stored at: config.yaml (or the path passed via --config)
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Assets    AssetsCfg              `mapstructure:"assets" yaml:"assets"`
	Pipeline  PipelineCfg            `mapstructure:"pipeline" yaml:"pipeline"`
	Stores    StoresCfg              `mapstructure:"stores" yaml:"stores"`
}

// ProviderCfg configures one generation provider.
type ProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`       // "openai", "openrouter", "mock"
	Model          string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// AssetsCfg locates the hosted image assets.
type AssetsCfg struct {
	// BaseURL is the remote root; asset URLs resolve to
	// <base_url>/images/<filename>.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// PipelineCfg holds batch processing settings.
type PipelineCfg struct {
	Provider     string `mapstructure:"provider" yaml:"provider"`           // Provider name from the providers map
	Model        string `mapstructure:"model" yaml:"model"`                 // Override the provider's default model
	MaxTokens    int    `mapstructure:"max_tokens" yaml:"max_tokens"`       // Completion token cap
	DelaySeconds int    `mapstructure:"delay_seconds" yaml:"delay_seconds"` // Pacing between generation calls
}

// StoresCfg holds the data file paths.
type StoresCfg struct {
	Mapping string `mapstructure:"mapping" yaml:"mapping"` // Line-delimited JSON image mapping
	Records string `mapstructure:"records" yaml:"records"` // Append-only QA record store
	Errors  string `mapstructure:"errors" yaml:"errors"`   // Append-only failure log
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o",
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 120,
				MaxRetries:     2,
				Enabled:        true,
			},
			"openrouter": {
				Type:           "openrouter",
				Model:          "openai/gpt-4o",
				APIKey:         "${OPENROUTER_API_KEY}",
				TimeoutSeconds: 120,
				MaxRetries:     2,
				Enabled:        false,
			},
		},
		Assets: AssetsCfg{
			BaseURL: "https://raw.githubusercontent.com/Shize-ZHANG/Any2Any-chemistry/main/original_data",
		},
		Pipeline: PipelineCfg{
			Provider:     "openai",
			Model:        "gpt-4o",
			MaxTokens:    2000,
			DelaySeconds: 8,
		},
		Stores: StoresCfg{
			Mapping: "images_301_900.jsonl",
			Records: "chemistry_qa_pairs.jsonl",
			Errors:  "chemistry_error_log.txt",
		},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
