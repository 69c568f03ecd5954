package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"fileagent/internal/fsquery"
)

type recordingCompleter struct {
	calls int
	reply string
}

func (r *recordingCompleter) Complete(_ context.Context, prompt string) (string, error) {
	r.calls++
	return r.reply, nil
}

func TestOpenAIToolDefinitions(t *testing.T) {
	registry := newTestRegistry()
	defs := registry.OpenAITools()

	if len(defs) != len(DefaultAllowList) {
		t.Fatalf("expected %d tool definitions, got %d", len(DefaultAllowList), len(defs))
	}

	byName := make(map[string]openai.Tool)
	for _, def := range defs {
		if def.Type != openai.ToolTypeFunction {
			t.Fatalf("expected function tool type, got %v", def.Type)
		}
		if def.Function == nil || def.Function.Description == "" {
			t.Fatal("every tool needs a function definition with a description")
		}
		byName[def.Function.Name] = def
	}

	list, ok := byName["list_files"]
	if !ok {
		t.Fatal("list_files definition missing")
	}
	params, ok := list.Function.Parameters.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected parameters type %T", list.Function.Parameters)
	}
	props, ok := params["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("list_files parameters missing properties")
	}
	for _, key := range []string{"directory", "extension", "recursive"} {
		if _, ok := props[key]; !ok {
			t.Fatalf("list_files schema missing %q", key)
		}
	}
	required, ok := params["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "directory" {
		t.Fatalf("list_files should require only directory, got %v", params["required"])
	}
}

func TestSummarizeToolUsesCompleter(t *testing.T) {
	completer := &recordingCompleter{reply: "the gist of it"}
	registry := NewRegistry(fsquery.NewToolset(completer))
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "essay.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("words words words ", 20)), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	result := registry.Execute(context.Background(), "summarize_file", map[string]interface{}{
		"file_path": path,
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	if completer.calls != 1 {
		t.Fatalf("expected one completion call, got %d", completer.calls)
	}
	if !strings.Contains(result.Result, "the gist of it") {
		t.Fatalf("expected summary in result, got: %s", result.Result)
	}
}

func TestSummarizeToolMaxCharsFromJSON(t *testing.T) {
	completer := &recordingCompleter{reply: "short"}
	registry := NewRegistry(fsquery.NewToolset(completer))
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "big.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("a", 400)), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	// JSON numbers arrive as float64; max_chars must be coerced.
	call := openai.ToolCall{
		ID:   "call-7",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "summarize_file",
			Arguments: `{"file_path": "` + path + `", "max_chars": 150}`,
		},
	}
	result := registry.ExecuteOpenAIToolCall(context.Background(), call)
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	if !strings.Contains(result.Result, "first 150 characters") {
		t.Fatalf("expected truncation note for max_chars=150, got: %s", result.Result)
	}
}

func TestFormatToolResult(t *testing.T) {
	call := openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "list_files",
			Arguments: `{"directory": "."}`,
		},
	}

	formatted := FormatToolResult(call, &ToolResult{Function: "list_files", Result: "Found 2 files"}, false)
	if !strings.Contains(formatted, "list_files") {
		t.Fatalf("expected tool name, got: %s", formatted)
	}
	if !strings.Contains(formatted, "Found 2 files") {
		t.Fatalf("expected result body, got: %s", formatted)
	}

	long := strings.Repeat("x", formatResultPreviewChars+50)
	clipped := FormatToolResult(call, &ToolResult{Function: "list_files", Result: long}, false)
	if !strings.Contains(clipped, "...") {
		t.Fatalf("expected preview clipping, got length %d", len(clipped))
	}
	full := FormatToolResult(call, &ToolResult{Function: "list_files", Result: long}, true)
	if strings.Contains(full, "...") {
		t.Fatal("verbose mode must not clip")
	}
}
