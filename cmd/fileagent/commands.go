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
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"fileagent/internal/chat"
)

// Command represents a slash command
type Command struct {
	Name        string
	Description string
}

// getAvailableCommands returns the list of all slash commands
func getAvailableCommands() []Command {
	return []Command{
		{Name: "help", Description: "Show available commands"},
		{Name: "clear", Description: "Clear conversation history"},
		{Name: "history", Description: "Display conversation history"},
		{Name: "tools", Description: "List available file tools and permissions"},
		{Name: "status", Description: "Check the model endpoint and list models"},
		{Name: "quit", Description: "Exit the application"},
		{Name: "exit", Description: "Exit the application"},
	}
}

// handleCommand processes slash commands, returns true if should quit
func handleCommand(input string, session *chat.Session, models ModelLister, logger zerolog.Logger) bool {
	cmdName := strings.TrimPrefix(input, "/")
	cmdName = strings.ToLower(strings.TrimSpace(cmdName))

	logger.Debug().Str("command", cmdName).Msg("Executing command")

	switch cmdName {
	case "help":
		showHelp()
		return false

	case "clear":
		session.ClearHistory()
		fmt.Println("Conversation history cleared")
		return false

	case "history":
		showHistory(session)
		return false

	case "tools":
		showTools(session)
		return false

	case "status":
		showStatus(session, models, logger)
		return false

	case "quit", "exit":
		return true

	default:
		fmt.Printf("Unknown command: /%s (type /help for available commands)\n", cmdName)
		return false
	}
}

func showHelp() {
	fmt.Println("\nAvailable Commands:")
	seen := make(map[string]bool)
	for _, cmd := range getAvailableCommands() {
		if seen[cmd.Name] {
			continue
		}
		seen[cmd.Name] = true
		fmt.Printf("  /%-12s - %s\n", cmd.Name, cmd.Description)
	}
	fmt.Println("\nKeyboard Shortcuts:")
	fmt.Println("  Ctrl+↑/↓     - Navigate command history")
	fmt.Println("  Tab          - Auto-complete commands")
	fmt.Println()
}

func showHistory(session *chat.Session) {
	messages := session.GetHistory()
	if len(messages) == 0 {
		fmt.Println("No conversation history")
		return
	}

	fmt.Println("\nConversation History:")
	for _, msg := range messages {
		switch msg.Role {
		case "user":
			fmt.Printf("❯ %s\n", msg.Content)
		case "assistant":
			fmt.Printf("⟫ %s\n", msg.Content)
		case "tool":
			fmt.Printf("[Tool %s] %s\n", msg.Name, msg.Content)
		}
	}
	fmt.Println()
}

func showTools(session *chat.Session) {
	fmt.Println("\nFile Tools:")

	toolNames := session.ToolRegistry.GetToolNames()
	if len(toolNames) == 0 {
		fmt.Println("No tools available")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, '\t', 0)
	fmt.Fprintln(w, "Tool\tPermission")
	fmt.Fprintln(w, "────\t──────────")

	for _, name := range toolNames {
		perm := session.ToolRegistry.GetPermission(name)
		level := "blocked"
		if perm.Allowed {
			level = "allowed"
			if perm.RequireConfirmation {
				level = "ask"
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", name, level)
	}
	w.Flush()
	fmt.Println()
}

func showStatus(session *chat.Session, models ModelLister, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := checkEndpoint(ctx, models, session.Config)
	if err != nil {
		logger.Warn().Err(err).Msg("Endpoint check failed")
		fmt.Printf("Endpoint check failed: %v\n", err)
		if session.Config.Backend == "local" {
			fmt.Println("Is Ollama running? Try: ollama serve")
		}
		return
	}
	fmt.Println(report)
}
