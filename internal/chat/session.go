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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/sashabaranov/go-openai"

	"fileagent/internal/config"
	"fileagent/internal/fsquery"
	"fileagent/internal/tools"
	systemprompt "fileagent/system_prompt"
)

// Session represents a chat session with context.
//
// Thread-safety: Session is safe for concurrent use. All message operations
// (AddMessage, AddAssistantMessage, AddToolResultMessage, MessagesSnapshot,
// SaveConversationHistory, LoadConversationHistory) are protected by an
// internal mutex. ToolRegistry has its own thread-safety guarantees.
type Session struct {
	Client            ChatClient
	Config            *config.Config
	Messages          []openai.ChatCompletionMessage
	ToolRegistry      *tools.Registry
	mu                sync.Mutex
	lastSavedMsgCount int // Track how many messages were last saved (protected by mu)
}

var defaultSystemPrompt = mustLoadSystemPrompt()

func mustLoadSystemPrompt() string {
	prompt, err := systemprompt.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load system prompt: %v", err))
	}
	return prompt
}

// NewOpenAIClient creates an OpenAI-compatible client pointed at the
// configured endpoint. The same client talks to Ollama's /v1 API and
// to the hosted OpenAI API.
func NewOpenAIClient(cfg *config.Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
		clientConfig.HTTPClient = &http.Client{}
	}
	return openai.NewClientWithConfig(clientConfig)
}

// NewSession creates a new chat session with a default OpenAI client.
func NewSession(cfg *config.Config) *Session {
	return NewSessionWithClient(cfg, NewOpenAIClient(cfg))
}

// NewSessionWithClient creates a new chat session with a provided client (for testing).
// The summarize tool loops back through the same client via a Completer.
func NewSessionWithClient(cfg *config.Config, client ChatClient) *Session {
	completer := NewCompleter(client, cfg)
	toolset := fsquery.NewToolset(completer)
	toolRegistry := tools.NewRegistryWithPolicy(toolset, cfg.ToolPolicy())

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: defaultSystemPrompt,
		},
	}

	return &Session{
		Client:       client,
		Config:       cfg,
		Messages:     messages,
		ToolRegistry: toolRegistry,
	}
}

// AddMessage adds a message to the conversation history
func (s *Session) AddMessage(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, openai.ChatCompletionMessage{
		Role:    role,
		Content: content,
	})
}

// AddAssistantMessage adds an assistant message with optional tool calls.
func (s *Session) AddAssistantMessage(content string, toolCalls []openai.ToolCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		Content:   content,
		ToolCalls: toolCalls,
	})
}

// AddToolResultMessage appends a tool result message.
func (s *Session) AddToolResultMessage(call openai.ToolCall, result *tools.ToolResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content := result.Result
	if result.Error != nil {
		content = fmt.Sprintf("Error: %v", result.Error)
	}

	name := call.Function.Name
	if name == "" {
		name = "unknown_tool"
	}
	s.Messages = append(s.Messages, openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    content,
		Name:       name,
		ToolCallID: call.ID,
	})
}

// MessagesSnapshot returns a copy of the current messages.
func (s *Session) MessagesSnapshot() []openai.ChatCompletionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]openai.ChatCompletionMessage, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs
}

// GetResponseWithContext gets a response from the model. Tool calls are
// executed and fed back until the model produces a final text answer or the
// configured iteration cap is reached. The cap bounds how many model round
// trips a single user prompt may cost.
func (s *Session) GetResponseWithContext(ctx context.Context, prompt string) (string, error) {
	s.AddMessage(openai.ChatMessageRoleUser, prompt)

	maxIterations := s.Config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = config.DefaultMaxIterations
	}

	lastContent := ""
	for iteration := 0; iteration < maxIterations; iteration++ {
		req := openai.ChatCompletionRequest{
			Model:    s.Config.Model,
			Messages: s.MessagesSnapshot(),
			Tools:    s.ToolRegistry.OpenAITools(),
		}

		if s.Config.Temperature != nil {
			req.Temperature = *s.Config.Temperature
		}

		if s.Config.MaxTokens != nil {
			req.MaxTokens = *s.Config.MaxTokens
		}

		resp, err := s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", &APIError{Operation: "create_completion", Err: err}
		}
		if len(resp.Choices) == 0 {
			return "", &APIError{Operation: "create_completion", Err: fmt.Errorf("response contained no choices")}
		}

		response := resp.Choices[0].Message
		s.AddAssistantMessage(response.Content, response.ToolCalls)

		if len(response.ToolCalls) == 0 {
			return response.Content, nil
		}
		lastContent = response.Content

		for _, toolCall := range response.ToolCalls {
			result := s.ToolRegistry.ExecuteOpenAIToolCall(ctx, toolCall)
			s.AddToolResultMessage(toolCall, result)
		}
	}

	if lastContent != "" {
		return lastContent, nil
	}
	return fmt.Sprintf("Reached the maximum number of tool iterations (%d) without a final answer.", maxIterations), nil
}

// GetResponse gets a response from the model.
func (s *Session) GetResponse(prompt string) (string, error) {
	return s.GetResponseWithContext(context.Background(), prompt)
}

// ClearHistory clears the conversation history
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	systemMsg := s.Messages[0]
	s.Messages = []openai.ChatCompletionMessage{systemMsg}
	s.lastSavedMsgCount = 0
}

// GetHistory returns the conversation history excluding system message
func (s *Session) GetHistory() []openai.ChatCompletionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Messages) <= 1 {
		return []openai.ChatCompletionMessage{}
	}
	return s.Messages[1:]
}

// SaveConversationHistory appends new messages to the history file
func (s *Session) SaveConversationHistory(filepath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Only save non-system messages
	history := s.Messages[1:]

	if len(history) <= s.lastSavedMsgCount {
		return nil // Nothing new to save
	}

	file, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &HistoryError{Operation: "open", Filepath: filepath, Err: err}
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for i := s.lastSavedMsgCount; i < len(history); i++ {
		if err := encoder.Encode(history[i]); err != nil {
			return &HistoryError{Operation: "encode", Filepath: filepath, Err: err}
		}
	}

	s.lastSavedMsgCount = len(history)
	return nil
}

// LoadConversationHistory loads conversation history from a file with a line limit
func (s *Session) LoadConversationHistory(filepath string, maxLines int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No history file is okay
		}
		return &HistoryError{Operation: "open", Filepath: filepath, Err: err}
	}
	defer file.Close()

	var messages []openai.ChatCompletionMessage
	decoder := json.NewDecoder(file)
	for {
		var msg openai.ChatCompletionMessage
		if err := decoder.Decode(&msg); err != nil {
			if err == io.EOF {
				break
			}
			return &HistoryError{Operation: "decode", Filepath: filepath, Err: err}
		}
		messages = append(messages, msg)
	}

	// Keep only the last N messages
	if maxLines > 0 && len(messages) > maxLines {
		messages = messages[len(messages)-maxLines:]
	}

	s.Messages = append(s.Messages, messages...)
	s.lastSavedMsgCount = len(messages)

	return nil
}

// FormatToolCallDisplay creates a user-friendly display of tool execution.
func (s *Session) FormatToolCallDisplay(toolCall openai.ToolCall, result *tools.ToolResult) string {
	return tools.FormatToolResult(toolCall, result, false)
}

// Close is a no-op for compatibility but may be used for cleanup in the future
func (s *Session) Close() error {
	return nil
}
