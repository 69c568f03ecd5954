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

package tools

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const formatResultPreviewChars = 200

// FormatToolResult creates a terminal-friendly display of a tool execution.
// When verbose is false the result body is clipped to a short preview.
func FormatToolResult(call openai.ToolCall, result *ToolResult, verbose bool) string {
	name := call.Function.Name
	if name == "" {
		name = "unknown_tool"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[tool] %s", name)

	args := strings.TrimSpace(call.Function.Arguments)
	if args != "" && args != "{}" && args != "null" {
		fmt.Fprintf(&b, " %s", args)
	}

	if result == nil {
		b.WriteString(" -> no result")
		return b.String()
	}

	if result.Error != nil {
		fmt.Fprintf(&b, " -> error: %v", result.Error)
		return b.String()
	}

	body := result.Result
	if !verbose {
		runes := []rune(body)
		if len(runes) > formatResultPreviewChars {
			body = string(runes[:formatResultPreviewChars]) + "..."
		}
	}
	if body == "" {
		b.WriteString(" -> done")
		return b.String()
	}
	fmt.Fprintf(&b, " ->\n%s", body)
	return b.String()
}
