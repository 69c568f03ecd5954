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

package fsquery

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SummarizeReport is the structured result of SummarizeFile.
type SummarizeReport struct {
	Problem *Failure
	Path    string

	// Short is set when the content was under the summarization threshold
	// and ShortContent holds it verbatim; no completion call was made.
	Short        bool
	ShortContent string

	// Summary is the completion backend's condensation. When Truncated is
	// set, only the first MaxChars of TotalChars characters were sent.
	Summary    string
	TotalChars int
	MaxChars   int
	Truncated  bool
}

func (r *SummarizeReport) Status() Status {
	if r.Problem != nil {
		return r.Problem.Kind
	}
	return StatusOK
}

// SummarizeFile condenses a file's content through the completion
// collaborator. maxChars caps the content sent to the backend; values <= 0
// select DefaultSummaryMaxChars. Content under 100 characters is returned
// verbatim without calling out.
func (t *Toolset) SummarizeFile(ctx context.Context, filePath string, maxChars int) *SummarizeReport {
	if maxChars <= 0 {
		maxChars = DefaultSummaryMaxChars
	}
	report := &SummarizeReport{Path: filePath, MaxChars: maxChars}

	if failure := validateTarget(filePath, false); failure != nil {
		report.Problem = failure
		return report
	}

	content, failure := readTextFile(filePath)
	if failure != nil {
		report.Problem = failure
		return report
	}

	runes := []rune(content)
	report.TotalChars = len(runes)

	if len(runes) < minSummarizeChars {
		report.Short = true
		report.ShortContent = content
		return report
	}

	toSummarize := content
	if len(runes) > maxChars {
		toSummarize = string(runes[:maxChars])
		report.Truncated = true
	}

	if t.completer == nil {
		report.Problem = genericFailure(filePath, "summarizing file", errors.New("no completion backend configured"))
		return report
	}

	prompt := buildSummaryPrompt(filePath, report.TotalChars, maxChars, toSummarize, report.Truncated)
	summary, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		// A failed completion call is not distinguished from other
		// failures; it surfaces as a generic message without retry.
		report.Problem = genericFailure(filePath, "summarizing file", err)
		return report
	}

	report.Summary = summary
	return report
}

func buildSummaryPrompt(path string, totalChars, maxChars int, content string, truncated bool) string {
	var b strings.Builder
	b.WriteString("Summarize the main content of the following file in 3-5 sentences:\n\n")
	fmt.Fprintf(&b, "File path: %s\n", path)
	fmt.Fprintf(&b, "File size: %d characters\n\n", totalChars)
	b.WriteString("Content:\n")
	b.WriteString(content)
	b.WriteString("\n")
	if truncated {
		fmt.Fprintf(&b, "\n(Note: the file content is long; only the first %d characters are shown)", maxChars)
	}
	return b.String()
}

func (r *SummarizeReport) Render() string {
	if r.Problem != nil {
		return r.Problem.Render()
	}
	if r.Short {
		return fmt.Sprintf("File content is short: %s", r.ShortContent)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summary of file %s:\n%s", r.Path, r.Summary)
	if r.Truncated {
		fmt.Fprintf(&b, "\n\nNote: the file is %d characters in total; the summary is based on the first %d characters.", r.TotalChars, r.MaxChars)
	}
	return b.String()
}
