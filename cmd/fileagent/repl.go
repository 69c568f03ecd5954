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
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"fileagent/internal/chat"
	"fileagent/internal/config"
)

func runREPLMode(logger zerolog.Logger) {
	logger.Debug().Msg("Running in interactive mode")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	client := chat.NewOpenAIClient(cfg)
	session := chat.NewSessionWithClient(cfg, client)
	defer session.Close()

	for _, warning := range cfg.Validate(session.ToolRegistry) {
		logger.Warn().Str("field", warning.Field).Msg(warning.Message)
		fmt.Printf("Warning: %s\n", warning.Message)
	}

	// Restore previous conversation
	if cfg.HistoryFile != "" {
		if err := session.LoadConversationHistory(cfg.HistoryFile, cfg.HistoryMaxMessages); err != nil {
			logger.Warn().Err(err).Msg("Failed to load conversation history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "❯ ",
		HistoryFile:     cfg.CommandHistoryFile,
		AutoComplete:    getCommandCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize readline")
	}
	defer rl.Close()

	// Display header
	fmt.Println("Fileagent - ask questions about your files")
	fmt.Printf("Connected to: %s (%s backend)\n", cfg.Endpoint, cfg.Backend)
	fmt.Printf("Model in use: %s\n", cfg.Model)
	fmt.Println("Type /help for commands, 'exit' or /quit to leave")
	fmt.Println()

	// Main event loop
	for {
		line, err := rl.Readline()
		if err != nil {
			switch classifyReadlineError(line, err) {
			case readlineContinue:
				continue
			case readlineExit:
				logger.Debug().Msg("Readline closed")
			}
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		logger.Info().Str("user_input", line).Msg("User input received")

		if isExitKeyword(line) {
			break
		}

		// Handle slash commands
		if strings.HasPrefix(line, "/") {
			if handleCommand(line, session, client, logger) {
				break
			}
			continue
		}

		handleConversation(line, session, cfg, logger)
	}

	fmt.Println("Goodbye!")
	logger.Info().Msg("Session ended")
}

// isExitKeyword matches the bare exit words accepted alongside /quit.
func isExitKeyword(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}

func handleConversation(line string, session *chat.Session, cfg *config.Config, logger zerolog.Logger) {
	start := time.Now()
	response, err := session.GetResponseWithContext(context.Background(), line)
	duration := time.Since(start)

	if err != nil {
		logger.Error().Err(err).Dur("duration_ms", duration).Msg("Error getting response")
		fmt.Printf("Error: %v\n", err)
		return
	}

	logger.Info().Dur("duration_ms", duration).Msg("Model response received")
	fmt.Printf("Assistant: %s\n\n", response)

	if cfg.HistoryFile != "" {
		if err := session.SaveConversationHistory(cfg.HistoryFile); err != nil {
			logger.Warn().Err(err).Msg("Failed to save conversation history")
		}
	}
}

// getCommandCompleter builds a readline completer from available commands
func getCommandCompleter() *readline.PrefixCompleter {
	commands := getAvailableCommands()
	items := make([]readline.PrefixCompleterInterface, len(commands))
	for i, cmd := range commands {
		items[i] = readline.PcItem("/" + cmd.Name)
	}
	return readline.NewPrefixCompleter(items...)
}
