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
	"sort"
)

// SchemaJSON returns the JSON schema for config.json.
func SchemaJSON() string {
	return configSchemaJSON
}

// ExampleConfigJSON returns a minimal example config derived from the schema.
func ExampleConfigJSON() string {
	return exampleConfigJSON
}

func normalizeConfigJSON(data []byte) ([]byte, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := validateConfigMap(raw, ""); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

func validateConfigMap(raw map[string]interface{}, prefix string) error {
	allowed := map[string]func(interface{}) error{
		"backend":  func(v interface{}) error { return validateString(v, prefix+"backend") },
		"endpoint": func(v interface{}) error { return validateString(v, prefix+"endpoint") },
		"api_key":  func(v interface{}) error { return validateString(v, prefix+"api_key") },
		"model":    func(v interface{}) error { return validateString(v, prefix+"model") },
		"max_iterations": func(v interface{}) error {
			return validateNumber(v, prefix+"max_iterations")
		},
		"temperature": func(v interface{}) error {
			return validateNumber(v, prefix+"temperature")
		},
		"max_tokens": func(v interface{}) error { return validateNumber(v, prefix+"max_tokens") },
		"history_file": func(v interface{}) error {
			return validateString(v, prefix+"history_file")
		},
		"command_history_file": func(v interface{}) error {
			return validateString(v, prefix+"command_history_file")
		},
		"history_max_messages": func(v interface{}) error {
			return validateNumber(v, prefix+"history_max_messages")
		},
		"tools": func(v interface{}) error {
			return validateToolsConfig(v, prefix+"tools.")
		},
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		validator, ok := allowed[key]
		if !ok {
			return fmt.Errorf("unknown configuration field %q", key)
		}
		if err := validator(raw[key]); err != nil {
			return err
		}
	}

	return nil
}

func validateToolsConfig(value interface{}, prefix string) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%stools must be an object", prefix)
	}
	allowed := map[string]func(interface{}) error{
		"allow": func(v interface{}) error { return validateStringArray(v, prefix+"allow") },
		"ask":   func(v interface{}) error { return validateStringArray(v, prefix+"ask") },
		"deny":  func(v interface{}) error { return validateStringArray(v, prefix+"deny") },
	}
	for key, val := range section {
		validator, ok := allowed[key]
		if !ok {
			return fmt.Errorf("unknown configuration field %q", prefix+key)
		}
		if err := validator(val); err != nil {
			return err
		}
	}
	return nil
}

func validateString(value interface{}, name string) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("%s must be a string", name)
	}
	return nil
}

func validateNumber(value interface{}, name string) error {
	if _, ok := value.(float64); !ok {
		return fmt.Errorf("%s must be a number", name)
	}
	return nil
}

func validateStringArray(value interface{}, name string) error {
	list, ok := value.([]interface{})
	if !ok {
		return fmt.Errorf("%s must be an array of strings", name)
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return fmt.Errorf("%s must be an array of strings", name)
		}
	}
	return nil
}

const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Fileagent Config",
  "type": "object",
  "properties": {
    "backend": { "type": "string", "enum": ["local", "remote"] },
    "endpoint": { "type": "string" },
    "api_key": { "type": "string" },
    "model": { "type": "string" },
    "max_iterations": { "type": "number" },
    "temperature": { "type": "number" },
    "max_tokens": { "type": "number" },
    "history_file": { "type": "string" },
    "command_history_file": { "type": "string" },
    "history_max_messages": { "type": "number" },
    "tools": {
      "type": "object",
      "properties": {
        "allow": { "type": "array", "items": { "type": "string" } },
        "ask": { "type": "array", "items": { "type": "string" } },
        "deny": { "type": "array", "items": { "type": "string" } }
      }
    }
  }
}`

const exampleConfigJSON = `{
  "backend": "local",
  "model": "llama3.2",
  "tools": {
    "allow": [
      "list_files",
      "read_file",
      "search_files",
      "count_files",
      "summarize_file"
    ]
  }
}`
