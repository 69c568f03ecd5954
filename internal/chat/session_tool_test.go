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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestToolCallLoop(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	round := 0
	client := &MockChatClient{}
	client.CreateCompletionFunc = func(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		round++
		if round == 1 {
			return toolCallResponse("call-1", "list_files", `{"directory": "`+tempDir+`"}`), nil
		}
		// The tool result must be visible on the follow-up request.
		last := req.Messages[len(req.Messages)-1]
		if last.Role != openai.ChatMessageRoleTool {
			t.Fatalf("expected tool message before follow-up, got role %s", last.Role)
		}
		if !strings.Contains(last.Content, "notes.txt") {
			t.Fatalf("expected tool output in follow-up, got: %s", last.Content)
		}
		return textResponse("the directory holds notes.txt"), nil
	}

	session := NewSessionWithClient(testConfig(), client)
	answer, err := session.GetResponse("what is in the directory?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "the directory holds notes.txt" {
		t.Fatalf("unexpected answer: %s", answer)
	}
	if round != 2 {
		t.Fatalf("expected 2 completion rounds, got %d", round)
	}

	// system, user, assistant(tool call), tool result, assistant answer
	msgs := session.MessagesSnapshot()
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	if msgs[3].Role != openai.ChatMessageRoleTool || msgs[3].ToolCallID != "call-1" {
		t.Fatalf("expected tool result referencing call-1, got %+v", msgs[3])
	}
}

func TestToolCallUnknownToolFeedsErrorBack(t *testing.T) {
	round := 0
	client := &MockChatClient{}
	client.CreateCompletionFunc = func(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		round++
		if round == 1 {
			return toolCallResponse("call-1", "no_such_tool", `{}`), nil
		}
		last := req.Messages[len(req.Messages)-1]
		if last.Role != openai.ChatMessageRoleTool {
			t.Fatalf("expected tool message, got role %s", last.Role)
		}
		if !strings.Contains(last.Content, "Error") {
			t.Fatalf("expected error content for unknown tool, got: %s", last.Content)
		}
		return textResponse("that tool is unavailable"), nil
	}

	session := NewSessionWithClient(testConfig(), client)
	answer, err := session.GetResponse("please use no_such_tool")
	if err != nil {
		t.Fatalf("tool failure must not abort the conversation: %v", err)
	}
	if answer != "that tool is unavailable" {
		t.Fatalf("unexpected answer: %s", answer)
	}
}

func TestIterationCap(t *testing.T) {
	tempDir := t.TempDir()

	client := &MockChatClient{}
	client.CreateCompletionFunc = func(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		// Never produce a final answer.
		return toolCallResponse("call-x", "count_files", `{"directory": "`+tempDir+`"}`), nil
	}

	cfg := testConfig()
	cfg.MaxIterations = 3
	session := NewSessionWithClient(cfg, client)

	answer, err := session.GetResponse("loop forever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.CompletionCalls) != 3 {
		t.Fatalf("expected exactly 3 completion calls, got %d", len(client.CompletionCalls))
	}
	if !strings.Contains(answer, "maximum number of tool iterations") {
		t.Fatalf("expected iteration cap notice, got: %s", answer)
	}
}

func TestMultipleToolCallsInOneRound(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("alpha"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	round := 0
	client := &MockChatClient{}
	client.CreateCompletionFunc = func(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		round++
		if round == 1 {
			return openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{
						Message: openai.ChatCompletionMessage{
							Role: openai.ChatMessageRoleAssistant,
							ToolCalls: []openai.ToolCall{
								{
									ID:   "call-1",
									Type: openai.ToolTypeFunction,
									Function: openai.FunctionCall{
										Name:      "list_files",
										Arguments: `{"directory": "` + tempDir + `"}`,
									},
								},
								{
									ID:   "call-2",
									Type: openai.ToolTypeFunction,
									Function: openai.FunctionCall{
										Name:      "count_files",
										Arguments: `{"directory": "` + tempDir + `"}`,
									},
								},
							},
						},
					},
				},
			}, nil
		}
		toolMessages := 0
		for _, msg := range req.Messages {
			if msg.Role == openai.ChatMessageRoleTool {
				toolMessages++
			}
		}
		if toolMessages != 2 {
			t.Fatalf("expected 2 tool results, got %d", toolMessages)
		}
		return textResponse("done"), nil
	}

	session := NewSessionWithClient(testConfig(), client)
	if _, err := session.GetResponse("list and count"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
