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
	"context"

	"fileagent/internal/fsquery"
)

const builtinToolVersion = "1.0.0"

// registerBuiltInTools registers the five file-query tools to the registry.
// Every executor returns a rendered report, never an error: failures are
// descriptive messages the model can act on.
func registerBuiltInTools(r *Registry, ts *fsquery.Toolset) {
	register := func(tool Tool) {
		if err := r.RegisterTool(tool); err != nil {
			panic(err)
		}
	}

	register(&ToolDefinition{
		NameValue:        "list_files",
		DescriptionValue: "List the files in a directory, optionally filtered by extension and optionally recursing into subdirectories. Large listings are summarized with a file type distribution.",
		ParametersValue: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"directory": map[string]interface{}{
					"type":        "string",
					"description": "Path of the directory to list",
				},
				"extension": map[string]interface{}{
					"type":        "string",
					"description": "Only list files with this exact extension, including the leading dot (e.g. '.go', '.txt')",
				},
				"recursive": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether to include subdirectories (default: false)",
				},
			},
			"required": []string{"directory"},
		},
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (string, error) {
			report := ts.ListFiles(stringArg(args, "directory"), stringArg(args, "extension"), boolArg(args, "recursive"))
			return report.Render(), nil
		},
		ValidateFunc: ChainValidation(
			RequireStringArg("directory", "missing or invalid 'directory' parameter"),
			OptionalStringArg("extension", "'extension' must be a string such as '.txt'"),
			OptionalBoolArg("recursive", "'recursive' must be a boolean"),
		),
		VersionValue: builtinToolVersion,
	})

	register(&ToolDefinition{
		NameValue:        "read_file",
		DescriptionValue: "Read the text content of a file. Content longer than 5000 characters is truncated with a notice stating the true length.",
		ParametersValue: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path of the file to read",
				},
			},
			"required": []string{"file_path"},
		},
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (string, error) {
			return ts.ReadFile(stringArg(args, "file_path")).Render(), nil
		},
		ValidateFunc: RequireStringArg("file_path", "missing or invalid 'file_path' parameter"),
		VersionValue: builtinToolVersion,
	})

	register(&ToolDefinition{
		NameValue:        "search_files",
		DescriptionValue: "Search files in a directory for a case-insensitive keyword in their text content. Unreadable or binary files are skipped.",
		ParametersValue: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"directory": map[string]interface{}{
					"type":        "string",
					"description": "Path of the directory to search",
				},
				"keyword": map[string]interface{}{
					"type":        "string",
					"description": "Keyword to look for (matched case-insensitively)",
				},
				"recursive": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether to search subdirectories (default: false)",
				},
			},
			"required": []string{"directory", "keyword"},
		},
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (string, error) {
			report := ts.SearchFiles(stringArg(args, "directory"), stringArg(args, "keyword"), boolArg(args, "recursive"))
			return report.Render(), nil
		},
		ValidateFunc: ChainValidation(
			RequireStringArg("directory", "missing or invalid 'directory' parameter"),
			RequireStringArg("keyword", "missing or invalid 'keyword' parameter"),
			OptionalBoolArg("recursive", "'recursive' must be a boolean"),
		),
		VersionValue: builtinToolVersion,
	})

	register(&ToolDefinition{
		NameValue:        "count_files",
		DescriptionValue: "Count the files in a directory, optionally filtered by extension and optionally recursing into subdirectories. Returns only the count, never file names.",
		ParametersValue: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"directory": map[string]interface{}{
					"type":        "string",
					"description": "Path of the directory to count files in",
				},
				"extension": map[string]interface{}{
					"type":        "string",
					"description": "Only count files with this exact extension, including the leading dot",
				},
				"recursive": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether to include subdirectories (default: false)",
				},
			},
			"required": []string{"directory"},
		},
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (string, error) {
			report := ts.CountFiles(stringArg(args, "directory"), stringArg(args, "extension"), boolArg(args, "recursive"))
			return report.Render(), nil
		},
		ValidateFunc: ChainValidation(
			RequireStringArg("directory", "missing or invalid 'directory' parameter"),
			OptionalStringArg("extension", "'extension' must be a string such as '.txt'"),
			OptionalBoolArg("recursive", "'recursive' must be a boolean"),
		),
		VersionValue: builtinToolVersion,
	})

	register(&ToolDefinition{
		NameValue:        "summarize_file",
		DescriptionValue: "Summarize the content of a text file using the language model. Very short files are returned verbatim; long content is capped at max_chars characters before summarization.",
		ParametersValue: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Path of the file to summarize",
				},
				"max_chars": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of characters sent to the model (default: 10000)",
				},
			},
			"required": []string{"file_path"},
		},
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (string, error) {
			report := ts.SummarizeFile(ctx, stringArg(args, "file_path"), intArg(args, "max_chars"))
			return report.Render(), nil
		},
		ValidateFunc: ChainValidation(
			RequireStringArg("file_path", "missing or invalid 'file_path' parameter"),
			OptionalNumberArg("max_chars", "'max_chars' must be a number"),
		),
		VersionValue: builtinToolVersion,
	})
}
