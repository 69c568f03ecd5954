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
	"errors"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"

	"fileagent/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Backend:            config.BackendLocal,
		APIKey:             "test-key",
		Model:              "test-model",
		MaxIterations:      config.DefaultMaxIterations,
		HistoryMaxMessages: 100,
	}
}

func TestNewSessionStartsWithSystemMessage(t *testing.T) {
	session := NewSessionWithClient(testConfig(), &MockChatClient{})

	msgs := session.MessagesSnapshot()
	if len(msgs) != 1 {
		t.Fatalf("expected only the system message, got %d messages", len(msgs))
	}
	if msgs[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected system role, got %s", msgs[0].Role)
	}
	if msgs[0].Content == "" {
		t.Fatal("expected a non-empty system prompt")
	}
}

func TestGetResponsePlainAnswer(t *testing.T) {
	client := &MockChatClient{
		CreateCompletionFunc: func(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return textResponse("hello there"), nil
		},
	}
	session := NewSessionWithClient(testConfig(), client)

	answer, err := session.GetResponse("hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "hello there" {
		t.Fatalf("unexpected answer: %s", answer)
	}
	if len(client.CompletionCalls) != 1 {
		t.Fatalf("expected one completion call, got %d", len(client.CompletionCalls))
	}

	// Requests must advertise the file tools.
	if len(client.CompletionCalls[0].Tools) == 0 {
		t.Fatal("expected tool definitions in the request")
	}
}

func TestGetResponseAPIError(t *testing.T) {
	client := &MockChatClient{
		CreateCompletionFunc: func(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, errors.New("connection refused")
		},
	}
	session := NewSessionWithClient(testConfig(), client)

	_, err := session.GetResponse("hi")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
}

func TestClearHistoryKeepsSystemMessage(t *testing.T) {
	session := NewSessionWithClient(testConfig(), &MockChatClient{})
	session.AddMessage(openai.ChatMessageRoleUser, "question")
	session.AddMessage(openai.ChatMessageRoleAssistant, "answer")

	session.ClearHistory()

	msgs := session.MessagesSnapshot()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message after clear, got %d", len(msgs))
	}
	if msgs[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected system message to survive, got role %s", msgs[0].Role)
	}
}

func TestGetHistoryExcludesSystemMessage(t *testing.T) {
	session := NewSessionWithClient(testConfig(), &MockChatClient{})

	if got := session.GetHistory(); len(got) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(got))
	}

	session.AddMessage(openai.ChatMessageRoleUser, "question")
	history := session.GetHistory()
	if len(history) != 1 {
		t.Fatalf("expected 1 history message, got %d", len(history))
	}
	if history[0].Role != openai.ChatMessageRoleUser {
		t.Fatalf("unexpected role: %s", history[0].Role)
	}
}

func TestSaveAndLoadConversationHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	session := NewSessionWithClient(testConfig(), &MockChatClient{})
	session.AddMessage(openai.ChatMessageRoleUser, "first question")
	session.AddMessage(openai.ChatMessageRoleAssistant, "first answer")

	if err := session.SaveConversationHistory(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	restored := NewSessionWithClient(testConfig(), &MockChatClient{})
	if err := restored.LoadConversationHistory(path, 100); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	history := restored.GetHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 restored messages, got %d", len(history))
	}
	if history[0].Content != "first question" || history[1].Content != "first answer" {
		t.Fatalf("unexpected restored content: %+v", history)
	}
}

func TestSaveConversationHistoryIsIncremental(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	session := NewSessionWithClient(testConfig(), &MockChatClient{})
	session.AddMessage(openai.ChatMessageRoleUser, "one")
	if err := session.SaveConversationHistory(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	session.AddMessage(openai.ChatMessageRoleAssistant, "two")
	if err := session.SaveConversationHistory(path); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	restored := NewSessionWithClient(testConfig(), &MockChatClient{})
	if err := restored.LoadConversationHistory(path, 100); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	history := restored.GetHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 messages without duplicates, got %d", len(history))
	}
}

func TestLoadConversationHistoryRespectsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	session := NewSessionWithClient(testConfig(), &MockChatClient{})
	session.AddMessage(openai.ChatMessageRoleUser, "oldest")
	session.AddMessage(openai.ChatMessageRoleAssistant, "middle")
	session.AddMessage(openai.ChatMessageRoleUser, "newest")
	if err := session.SaveConversationHistory(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	restored := NewSessionWithClient(testConfig(), &MockChatClient{})
	if err := restored.LoadConversationHistory(path, 2); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	history := restored.GetHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 messages after limit, got %d", len(history))
	}
	if history[0].Content != "middle" || history[1].Content != "newest" {
		t.Fatalf("expected the newest messages to survive, got %+v", history)
	}
}

func TestLoadConversationHistoryMissingFileOK(t *testing.T) {
	session := NewSessionWithClient(testConfig(), &MockChatClient{})
	if err := session.LoadConversationHistory(filepath.Join(t.TempDir(), "absent.jsonl"), 100); err != nil {
		t.Fatalf("missing history file must not be an error: %v", err)
	}
}
