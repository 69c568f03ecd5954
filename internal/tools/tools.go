package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sashabaranov/go-openai"

	"fileagent/internal/fsquery"
)

// DefaultAllowList holds the built-in tools enabled without confirmation.
// All five file-query tools are read-only (summarize_file additionally
// calls the completion backend).
var DefaultAllowList = []string{
	"list_files",
	"read_file",
	"search_files",
	"count_files",
	"summarize_file",
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	Function string
	Result   string
	Error    error
}

// Permission describes the policy for a tool.
type Permission struct {
	Allowed             bool
	RequireConfirmation bool
}

// Policy configures which tools are allowed, require confirmation, or are denied.
// A nil map leaves the corresponding permission untouched.
type Policy struct {
	Allow map[string]bool
	Ask   map[string]bool
	Deny  map[string]bool
}

// ExecuteOptions controls how tool execution is handled.
type ExecuteOptions struct {
	// Force bypasses policy checks and confirmation requirements (use only after explicit user consent).
	Force bool
}

// Registry holds all available tools with their implementations.
type Registry struct {
	mu          sync.RWMutex
	tools       map[string]Tool
	permissions map[string]Permission
}

// NewRegistry creates a registry with the built-in file-query tools and the
// default policy.
func NewRegistry(toolset *fsquery.Toolset) *Registry {
	return NewRegistryWithPolicy(toolset, DefaultPolicy())
}

// NewRegistryWithPolicy creates a registry with the provided policy.
func NewRegistryWithPolicy(toolset *fsquery.Toolset, policy Policy) *Registry {
	r := &Registry{
		tools:       make(map[string]Tool),
		permissions: make(map[string]Permission),
	}

	registerBuiltInTools(r, toolset)
	r.applyPolicy(DefaultPolicy())
	r.applyPolicy(policy)

	return r
}

// RegisterTool adds a new tool to the registry.
func (r *Registry) RegisterTool(tool Tool) error {
	if tool.Name() == "" {
		return fmt.Errorf("tool has no name")
	}
	if !tool.CompatibleWith(HostAPIVersion) {
		return fmt.Errorf("%w: %s targets %s, host is %s", ErrIncompatibleTool, tool.Name(), tool.Version(), HostAPIVersion)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	if _, ok := r.permissions[tool.Name()]; !ok {
		// Unknown tools default to blocked + confirmation.
		r.permissions[tool.Name()] = Permission{Allowed: false, RequireConfirmation: true}
	}
	return nil
}

// applyPolicy merges the provided policy into the registry permissions.
func (r *Registry) applyPolicy(policy Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.tools {
		perm, ok := r.permissions[name]
		if !ok {
			perm = Permission{Allowed: false, RequireConfirmation: true}
		}
		if policy.Allow != nil {
			perm.Allowed = policy.Allow[name]
		}
		if policy.Ask != nil {
			perm.RequireConfirmation = policy.Ask[name]
		}
		if policy.Deny != nil && policy.Deny[name] {
			perm.Allowed = false
		}
		r.permissions[name] = perm
	}
}

// DefaultPolicy returns the default allow/confirm policy.
func DefaultPolicy() Policy {
	allow := make(map[string]bool, len(DefaultAllowList))
	for _, name := range DefaultAllowList {
		allow[name] = true
	}
	return Policy{Allow: allow, Ask: map[string]bool{}}
}

// GetToolNames returns a sorted list of all tool names.
func (r *Registry) GetToolNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTools returns all registered tools.
func (r *Registry) GetTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		list = append(list, tool)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// OpenAITools returns the registry as OpenAI tool definitions.
func (r *Registry) OpenAITools() []openai.Tool {
	tools := r.GetTools()
	defs := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return defs
}

// Execute runs the specified tool with given arguments.
func (r *Registry) Execute(ctx context.Context, function string, args map[string]interface{}) *ToolResult {
	return r.ExecuteWithOptions(ctx, function, args, ExecuteOptions{})
}

// ExecuteWithOptions runs the tool using the provided options.
func (r *Registry) ExecuteWithOptions(ctx context.Context, function string, args map[string]interface{}, opts ExecuteOptions) *ToolResult {
	result := &ToolResult{Function: function}

	tool, exists := r.getTool(function)
	if !exists {
		result.Error = fmt.Errorf("%w: %s", ErrToolNotFound, function)
		result.Result = fmt.Sprintf("Error: Tool '%s' not found. Available tools: %v", function, r.GetToolNames())
		return result
	}

	if !opts.Force {
		perm := r.getPermission(function)
		if !perm.Allowed {
			result.Error = fmt.Errorf("%w: %s", ErrToolNotAllowed, function)
			result.Result = fmt.Sprintf("Tool '%s' is blocked by policy. Enable it to proceed.", function)
			return result
		}
		if perm.RequireConfirmation {
			result.Error = fmt.Errorf("%w: %s", ErrToolRequiresConfirmation, function)
			result.Result = fmt.Sprintf("Tool '%s' requires explicit approval before running.", function)
			return result
		}
	}

	if err := tool.Validate(args); err != nil {
		result.Error = fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		result.Result = fmt.Sprintf("Error: %v", err)
		return result
	}

	output, err := tool.Execute(ctx, args)
	result.Result = output
	if err != nil {
		result.Error = NewToolExecutionError(function, err)
		if result.Result == "" {
			result.Result = fmt.Sprintf("Error: %v", err)
		}
	}
	return result
}

// ExecuteOpenAIToolCall executes an OpenAI tool call payload.
func (r *Registry) ExecuteOpenAIToolCall(ctx context.Context, call openai.ToolCall) *ToolResult {
	return r.ExecuteOpenAIToolCallWithOptions(ctx, call, ExecuteOptions{})
}

// ExecuteOpenAIToolCallWithOptions executes a tool call with execution options.
func (r *Registry) ExecuteOpenAIToolCallWithOptions(ctx context.Context, call openai.ToolCall, opts ExecuteOptions) *ToolResult {
	name := call.Function.Name
	if name == "" {
		return &ToolResult{
			Function: "unknown_tool",
			Error:    fmt.Errorf("tool call missing function name"),
		}
	}

	args, err := parseToolArgs(call.Function.Arguments)
	if err != nil {
		return &ToolResult{
			Function: name,
			Error:    fmt.Errorf("%w: %v", ErrInvalidArguments, err),
			Result:   fmt.Sprintf("Error: invalid tool arguments: %v", err),
		}
	}

	return r.ExecuteWithOptions(ctx, name, args, opts)
}

// SetAllowed toggles whether a tool is allowed.
func (r *Registry) SetAllowed(name string, allowed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	perm := r.permissions[name]
	perm.Allowed = allowed
	r.permissions[name] = perm
}

// SetRequireConfirmation toggles per-tool confirmation.
func (r *Registry) SetRequireConfirmation(name string, require bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	perm := r.permissions[name]
	perm.RequireConfirmation = require
	r.permissions[name] = perm
}

// GetPermission returns the current permission entry for a tool.
func (r *Registry) GetPermission(name string) Permission {
	return r.getPermission(name)
}

func (r *Registry) getTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) getPermission(name string) Permission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if perm, ok := r.permissions[name]; ok {
		return perm
	}
	// Default for unknown tools: blocked and requires confirmation.
	return Permission{Allowed: false, RequireConfirmation: true}
}
