package providers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry holds references to generation clients. It supports
// config-driven instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]LLMClient
	logger  *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]LLMClient),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a generation client by name.
func (r *Registry) Register(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.logger != nil {
		r.logger.Info("registered generation client", "name", name)
	}
}

// Get returns a generation client by name.
func (r *Registry) Get(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("generation client not found: %s", name)
	}
	return client, nil
}

// Has checks if a generation client is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// List returns all registered client names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// ClientConfig defines one generation client to instantiate from config.
type ClientConfig struct {
	Type           string // "openai", "openrouter", "mock"
	Model          string
	APIKey         string // resolved API key
	BaseURL        string
	TimeoutSeconds int
	MaxRetries     int
	Enabled        bool
}

// RegistryConfig defines the clients to instantiate from config.
type RegistryConfig struct {
	Clients map[string]ClientConfig
}

// NewRegistryFromConfig creates a registry with clients based on
// configuration. Only enabled clients with valid API keys are registered
// (the mock client needs no key).
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	for name, cc := range cfg.Clients {
		client := createClient(cc)
		if client != nil {
			r.clients[name] = client
		}
	}
	return r
}

// Reload replaces the registered clients based on new configuration.
// Clients no longer configured are dropped.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]LLMClient, len(cfg.Clients))
	for name, cc := range cfg.Clients {
		client := createClient(cc)
		if client == nil {
			continue
		}
		next[name] = client
		if r.logger != nil {
			if _, had := r.clients[name]; had {
				r.logger.Info("updated generation client", "name", name, "type", cc.Type)
			} else {
				r.logger.Info("registered generation client", "name", name, "type", cc.Type)
			}
		}
	}
	for name := range r.clients {
		if _, keep := next[name]; !keep {
			if r.logger != nil {
				r.logger.Info("unregistered generation client", "name", name)
			}
		}
	}
	r.clients = next
}

// createClient creates a generation client based on client type.
func createClient(cc ClientConfig) LLMClient {
	if !cc.Enabled {
		return nil
	}
	timeout := time.Duration(cc.TimeoutSeconds) * time.Second

	switch cc.Type {
	case "openai":
		if cc.APIKey == "" {
			return nil
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cc.APIKey,
			Model:      cc.Model,
			BaseURL:    cc.BaseURL,
			Timeout:    timeout,
			MaxRetries: cc.MaxRetries,
		})
	case "openrouter":
		if cc.APIKey == "" {
			return nil
		}
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:     cc.APIKey,
			BaseURL:    cc.BaseURL,
			Model:      cc.Model,
			Timeout:    timeout,
			MaxRetries: cc.MaxRetries,
		})
	case "mock":
		return NewMockClient()
	default:
		return nil
	}
}
