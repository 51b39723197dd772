package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Providers) == 0 {
		t.Error("expected default providers")
	}
	openai, ok := cfg.GetProvider("openai")
	if !ok {
		t.Fatal("expected openai provider in defaults")
	}
	if openai.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
	if !openai.Enabled {
		t.Error("expected openai provider enabled by default")
	}
	if cfg.Pipeline.DelaySeconds != 8 {
		t.Errorf("expected default delay of 8 seconds, got %d", cfg.Pipeline.DelaySeconds)
	}
	if cfg.Stores.Records != "chemistry_qa_pairs.jsonl" {
		t.Errorf("unexpected default record store path: %s", cfg.Stores.Records)
	}
	if cfg.Assets.BaseURL == "" {
		t.Error("expected default asset base URL")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
pipeline:
  provider: "mock"
  delay_seconds: 0
stores:
  records: "out.jsonl"
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Pipeline.Provider != "mock" {
			t.Errorf("expected mock provider, got %s", cfg.Pipeline.Provider)
		}
		if cfg.Pipeline.DelaySeconds != 0 {
			t.Errorf("expected zero delay, got %d", cfg.Pipeline.DelaySeconds)
		}
		if cfg.Stores.Records != "out.jsonl" {
			t.Errorf("expected out.jsonl, got %s", cfg.Stores.Records)
		}
		// Values not in the file fall back to defaults.
		if cfg.Stores.Errors != "chemistry_error_log.txt" {
			t.Errorf("expected default error log path, got %s", cfg.Stores.Errors)
		}
		if cfg.Stores.Mapping != "images_301_900.jsonl" {
			t.Errorf("expected default mapping path, got %s", cfg.Stores.Mapping)
		}
	})

	t.Run("partial provider override keeps sibling defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
providers:
  openai:
    model: "gpt-4o-mini"
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		openai, ok := mgr.Get().GetProvider("openai")
		if !ok {
			t.Fatal("openai provider missing after partial override")
		}
		if openai.Model != "gpt-4o-mini" {
			t.Errorf("expected gpt-4o-mini, got %s", openai.Model)
		}
		if openai.APIKey != "${OPENAI_API_KEY}" {
			t.Errorf("sibling api_key default lost: %q", openai.APIKey)
		}
		if openai.TimeoutSeconds != 120 {
			t.Errorf("sibling timeout default lost: %d", openai.TimeoutSeconds)
		}
	})
}

func TestManager_OnChange(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
pipeline:
  provider: "openai"
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 2 {
		t.Errorf("expected 2 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestConfig_ToRegistryConfig(t *testing.T) {
	os.Setenv("TEST_CHEMQA_KEY", "sk-test-123")
	defer os.Unsetenv("TEST_CHEMQA_KEY")

	cfg := &Config{
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o",
				APIKey:  "${TEST_CHEMQA_KEY}",
				Enabled: true,
			},
			"mock": {
				Type:    "mock",
				Enabled: true,
			},
		},
	}

	rc := cfg.ToRegistryConfig()
	if len(rc.Clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(rc.Clients))
	}
	if rc.Clients["openai"].APIKey != "sk-test-123" {
		t.Errorf("API key not resolved: %s", rc.Clients["openai"].APIKey)
	}
	if rc.Clients["openai"].Model != "gpt-4o" {
		t.Errorf("model not carried through: %s", rc.Clients["openai"].Model)
	}
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	content := string(data)
	if len(content) == 0 {
		t.Fatal("written config is empty")
	}
	for _, want := range []string{"providers:", "pipeline:", "stores:", "${OPENAI_API_KEY}"} {
		if !strings.Contains(content, want) {
			t.Errorf("written config missing %q", want)
		}
	}
}
