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

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"fileagent/internal/config"
	"fileagent/internal/fsquery"
)

// Completer issues one-shot completions outside the conversation. It backs
// the summarize tool: the summary request never enters the session history.
type Completer struct {
	client ChatClient
	cfg    *config.Config
}

var _ fsquery.Completer = (*Completer)(nil)

// NewCompleter creates a completer sharing the session's client and model.
func NewCompleter(client ChatClient, cfg *config.Config) *Completer {
	return &Completer{client: client, cfg: cfg}
}

// Complete sends a single prompt and returns the model's text answer.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	if c.cfg.Temperature != nil {
		req.Temperature = *c.cfg.Temperature
	}
	if c.cfg.MaxTokens != nil {
		req.MaxTokens = *c.cfg.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &APIError{Operation: "one_shot_completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &APIError{Operation: "one_shot_completion", Err: fmt.Errorf("response contained no choices")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
