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

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"fileagent/internal/config"
)

// ModelLister abstracts the model listing endpoint for testing.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

var _ ModelLister = (*openai.Client)(nil)

// checkEndpoint queries the endpoint for its model list and reports whether
// the configured model is available.
func checkEndpoint(ctx context.Context, client ModelLister, cfg *config.Config) (string, error) {
	list, err := client.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot reach %s: %w", cfg.Endpoint, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Endpoint %s is reachable (%d models)\n", cfg.Endpoint, len(list.Models))

	configured := false
	for _, model := range list.Models {
		if modelMatches(model.ID, cfg.Model) {
			configured = true
			break
		}
	}
	if configured {
		fmt.Fprintf(&b, "Configured model %q is available", cfg.Model)
	} else {
		fmt.Fprintf(&b, "Configured model %q was not reported by the endpoint", cfg.Model)
		if cfg.Backend == config.BackendLocal {
			fmt.Fprintf(&b, "\nTry: ollama pull %s", cfg.Model)
		}
	}
	return b.String(), nil
}

// modelMatches compares model IDs ignoring an Ollama-style tag suffix, so
// "llama3.2" matches "llama3.2:latest".
func modelMatches(id, want string) bool {
	if id == want {
		return true
	}
	if base, _, ok := strings.Cut(id, ":"); ok && base == want {
		return true
	}
	return false
}
