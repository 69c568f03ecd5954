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

import "fmt"

// ReadReport is the structured result of ReadFile.
type ReadReport struct {
	Problem *Failure
	Path    string

	// Content holds the file text, cut to MaxPreviewChars runes when
	// Truncated is set. TotalChars is the true length in runes.
	Content    string
	TotalChars int
	Truncated  bool
}

func (r *ReadReport) Status() Status {
	if r.Problem != nil {
		return r.Problem.Kind
	}
	return StatusOK
}

// ReadFile returns the text content of a file, truncated to
// MaxPreviewChars characters when longer.
func (t *Toolset) ReadFile(filePath string) *ReadReport {
	report := &ReadReport{Path: filePath}

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
	if len(runes) > MaxPreviewChars {
		report.Truncated = true
		report.Content = string(runes[:MaxPreviewChars])
	} else {
		report.Content = content
	}

	return report
}

func (r *ReadReport) Render() string {
	if r.Problem != nil {
		return r.Problem.Render()
	}
	if r.Truncated {
		return fmt.Sprintf("File %s is too long; showing the first %d characters:\n%s...\n(total characters: %d)",
			r.Path, MaxPreviewChars, r.Content, r.TotalChars)
	}
	return fmt.Sprintf("Contents of file %s:\n%s", r.Path, r.Content)
}
