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
	"fmt"
	"sort"
	"strings"
)

// SearchReport is the structured result of SearchFiles.
type SearchReport struct {
	Problem   *Failure
	Directory string
	Keyword   string
	Recursive bool

	// Total is the number of matching files; Matches holds their sorted
	// relative paths, capped at MaxEntriesShown when Truncated is set.
	// Skipped counts files that could not be read or decoded.
	Total     int
	Matches   []string
	Truncated bool
	Skipped   int
}

func (r *SearchReport) Status() Status {
	if r.Problem != nil {
		return r.Problem.Kind
	}
	return StatusOK
}

// SearchFiles scans files under directory for a case-insensitive substring
// match of keyword against their full text content. Files that cannot be
// read or decoded are skipped; the search never aborts on a single file.
func (t *Toolset) SearchFiles(directory, keyword string, recursive bool) *SearchReport {
	report := &SearchReport{
		Directory: directory,
		Keyword:   keyword,
		Recursive: recursive,
	}

	if failure := validateTarget(directory, true); failure != nil {
		report.Problem = failure
		return report
	}

	needle := strings.ToLower(keyword)
	var matches []string
	err := walkFiles(directory, recursive, func(relPath, fullPath string) {
		scan := scanFile(relPath, fullPath)
		if scan.Skip != nil {
			report.Skipped++
			return
		}
		if strings.Contains(strings.ToLower(scan.Content), needle) {
			matches = append(matches, scan.RelPath)
		}
	})
	if err != nil {
		report.Problem = genericFailure(directory, "searching files", err)
		return report
	}

	sort.Strings(matches)
	report.Total = len(matches)

	if len(matches) > MaxEntriesShown {
		report.Truncated = true
		report.Matches = matches[:MaxEntriesShown]
	} else {
		report.Matches = matches
	}

	return report
}

func (r *SearchReport) Render() string {
	if r.Problem != nil {
		return r.Problem.Render()
	}

	recursiveNote := ""
	if r.Recursive {
		recursiveNote = " (including subdirectories)"
	}

	if r.Total == 0 {
		return fmt.Sprintf("No files containing keyword '%s' found in directory %s%s", r.Keyword, r.Directory, recursiveNote)
	}

	if !r.Truncated {
		var b strings.Builder
		fmt.Fprintf(&b, "Found %d files containing keyword '%s' in directory %s%s:\n", r.Total, r.Keyword, r.Directory, recursiveNote)
		writeBulletList(&b, r.Matches)
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d files containing keyword '%s' in directory %s%s\n\n", r.Total, r.Keyword, r.Directory, recursiveNote)
	fmt.Fprintf(&b, "First %d matching files:\n", MaxEntriesShown)
	writeBulletList(&b, r.Matches)
	fmt.Fprintf(&b, "\n\nNote: %d files matched in total; only the first %d are shown.", r.Total, MaxEntriesShown)
	return b.String()
}
