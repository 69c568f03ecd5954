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

// CountReport is the structured result of CountFiles. It never lists file
// names, only the count and the filters that produced it.
type CountReport struct {
	Problem   *Failure
	Directory string
	Extension string
	Recursive bool
	Count     int
}

func (r *CountReport) Status() Status {
	if r.Problem != nil {
		return r.Problem.Kind
	}
	return StatusOK
}

// CountFiles counts regular files under directory, respecting recursion
// and extension filtering exactly like ListFiles.
func (t *Toolset) CountFiles(directory, extension string, recursive bool) *CountReport {
	report := &CountReport{
		Directory: directory,
		Extension: extension,
		Recursive: recursive,
	}

	if failure := validateTarget(directory, true); failure != nil {
		report.Problem = failure
		return report
	}

	err := walkFiles(directory, recursive, func(relPath, fullPath string) {
		if extension != "" && fileExt(relPath) != extension {
			return
		}
		report.Count++
	})
	if err != nil {
		report.Problem = genericFailure(directory, "counting files", err)
	}

	return report
}

func (r *CountReport) Render() string {
	if r.Problem != nil {
		return r.Problem.Render()
	}

	extNote := ""
	if r.Extension != "" {
		extNote = fmt.Sprintf(" (%s files)", r.Extension)
	}
	recursiveNote := ""
	if r.Recursive {
		recursiveNote = " (including subdirectories)"
	}
	return fmt.Sprintf("Directory '%s' contains %d files%s%s", r.Directory, r.Count, extNote, recursiveNote)
}
