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

// Package fsquery implements the file-query operations exposed to the
// assistant: listing, reading, searching, counting and summarizing files.
//
// Every operation is a single-shot request/response call that returns a
// structured report. Reports carry a status kind plus the data needed to
// render a human-readable string; failures are part of the report, never
// returned as Go errors, so the model always receives a descriptive
// message instead of an aborted tool call.
package fsquery

import "context"

// Display and truncation limits. These are deliberately not configurable
// per call: tool output feeds straight into a model context window.
const (
	// MaxEntriesShown caps how many file paths a list or search result
	// prints before switching to summary mode.
	MaxEntriesShown = 50

	// MaxPreviewChars caps how many characters of file content ReadFile
	// returns, counted in runes.
	MaxPreviewChars = 5000

	// DefaultSummaryMaxChars is the default cap on content sent to the
	// completion backend by SummarizeFile.
	DefaultSummaryMaxChars = 10000

	// minSummarizeChars is the length below which file content is returned
	// verbatim instead of being summarized.
	minSummarizeChars = 100

	maxPathLength = 4096
)

// Completer is the external text-completion collaborator used by
// SummarizeFile. A single blocking call per summary; no retries.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Toolset bundles the five file-query operations with their collaborator.
// It holds no mutable state; a Toolset is safe for concurrent use, though
// callers are expected to invoke one tool at a time.
type Toolset struct {
	completer Completer
}

// NewToolset creates a Toolset. The completer may be nil, in which case
// SummarizeFile reports a failure instead of calling out.
func NewToolset(completer Completer) *Toolset {
	return &Toolset{completer: completer}
}
