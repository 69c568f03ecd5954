// Copyright (C) 2025 the fileagent authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"fileagent/internal/tools"
)

// Backend selects which OpenAI-compatible endpoint the agent talks to.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Per-backend defaults, applied to fields left empty by file and env.
const (
	localEndpoint = "http://localhost:11434/v1"
	localAPIKey   = "ollama"
	localModel    = "llama3.2"

	remoteEndpoint = "https://api.openai.com/v1"
	remoteModel    = "gpt-4o-mini"
)

// DefaultMaxIterations caps how many tool rounds a single user turn may take.
const DefaultMaxIterations = 10

// Config represents the application configuration
type Config struct {
	Backend            string       `json:"backend,omitempty"`
	Endpoint           string       `json:"endpoint,omitempty"`
	APIKey             string       `json:"api_key,omitempty"`
	Model              string       `json:"model,omitempty"`
	MaxIterations      int          `json:"max_iterations,omitempty"`
	Temperature        *float32     `json:"temperature,omitempty"`
	MaxTokens          *int         `json:"max_tokens,omitempty"`
	Tools              ToolSettings `json:"tools,omitempty"`
	HistoryFile        string       `json:"history_file,omitempty"`
	CommandHistoryFile string       `json:"command_history_file,omitempty"`
	HistoryMaxMessages int          `json:"history_max_messages,omitempty"`
}

// ToolSettings describes tool allow/ask/deny lists.
type ToolSettings struct {
	Allow []string `json:"allow,omitempty"`
	Ask   []string `json:"ask,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Backend:            BackendLocal,
		MaxIterations:      DefaultMaxIterations,
		HistoryFile:        ".fileagent_conversation_history",
		CommandHistoryFile: ".fileagent_history",
		HistoryMaxMessages: 100,
	}
}

// LoadConfig loads configuration from a JSON file, applies env overrides and
// backend defaults, and validates required fields. Resolution order is file,
// then environment, then per-backend defaults for anything still unset.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// If config file exists, load it
	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		normalized, err := normalizeConfigJSON(data)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(normalized, config); err != nil {
			return nil, err
		}
	}

	// Env overrides (apply regardless of whether config file exists)
	if val := os.Getenv("FILEAGENT_BACKEND"); val != "" {
		config.Backend = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		config.APIKey = val
	}
	if val := os.Getenv("OPENAI_API_URL"); val != "" {
		config.Endpoint = val
	}

	if err := config.applyBackendDefaults(); err != nil {
		return nil, err
	}

	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for the %s backend (set api_key in config.json or OPENAI_API_KEY)", config.Backend)
	}

	return config, nil
}

// applyBackendDefaults fills endpoint, model and key fields the file and env
// left empty. Only the local backend gets a default key: Ollama ignores the
// value but the client library requires one.
func (c *Config) applyBackendDefaults() error {
	switch c.Backend {
	case BackendLocal:
		if c.Endpoint == "" {
			c.Endpoint = localEndpoint
		}
		if c.Model == "" {
			c.Model = localModel
		}
		if c.APIKey == "" {
			c.APIKey = localAPIKey
		}
	case BackendRemote:
		if c.Endpoint == "" {
			c.Endpoint = remoteEndpoint
		}
		if c.Model == "" {
			c.Model = remoteModel
		}
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendLocal, BackendRemote)
	}
	return nil
}

// ToolPolicy converts config settings into a tool policy.
func (c *Config) ToolPolicy() tools.Policy {
	policy := tools.Policy{}
	if c.Tools.Allow != nil {
		allow := make(map[string]bool, len(c.Tools.Allow))
		for _, name := range c.Tools.Allow {
			allow[name] = true
		}
		policy.Allow = allow
	}
	if c.Tools.Ask != nil {
		ask := make(map[string]bool, len(c.Tools.Ask))
		for _, name := range c.Tools.Ask {
			ask[name] = true
		}
		policy.Ask = ask
	}
	if c.Tools.Deny != nil {
		deny := make(map[string]bool, len(c.Tools.Deny))
		for _, name := range c.Tools.Deny {
			deny[name] = true
		}
		policy.Deny = deny
	}
	return policy
}

// ValidationWarning represents a non-fatal configuration issue
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks the configuration for common issues and returns warnings
func (c *Config) Validate(registry *tools.Registry) []ValidationWarning {
	var warnings []ValidationWarning

	if c.Temperature != nil {
		temp := *c.Temperature
		if temp < 0 || temp > 2 {
			warnings = append(warnings, ValidationWarning{
				Field:   "temperature",
				Message: fmt.Sprintf("temperature %.2f is outside recommended range [0, 2]", temp),
			})
		}
	}

	if c.MaxTokens != nil {
		tokens := *c.MaxTokens
		if tokens <= 0 {
			warnings = append(warnings, ValidationWarning{
				Field:   "max_tokens",
				Message: fmt.Sprintf("max_tokens %d must be positive", tokens),
			})
		}
		if tokens > 128000 {
			warnings = append(warnings, ValidationWarning{
				Field:   "max_tokens",
				Message: fmt.Sprintf("max_tokens %d exceeds typical model limits", tokens),
			})
		}
	}

	if c.MaxIterations > 50 {
		warnings = append(warnings, ValidationWarning{
			Field:   "max_iterations",
			Message: fmt.Sprintf("max_iterations %d is unusually high; each iteration is a model round trip", c.MaxIterations),
		})
	}

	// Validate tool policy against registered tools
	if registry != nil {
		registered := make(map[string]bool)
		for _, tool := range registry.GetTools() {
			registered[tool.Name()] = true
		}

		check := func(field string, names []string) {
			for _, name := range names {
				if !registered[name] {
					warnings = append(warnings, ValidationWarning{
						Field:   field,
						Message: fmt.Sprintf("tool %q in %s list is not registered", name, field),
					})
				}
			}
		}
		check("tools.allow", c.Tools.Allow)
		check("tools.ask", c.Tools.Ask)
		check("tools.deny", c.Tools.Deny)
	}

	if c.HistoryMaxMessages <= 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "history_max_messages",
			Message: fmt.Sprintf("history_max_messages %d should be positive, using default", c.HistoryMaxMessages),
		})
	}

	return warnings
}
