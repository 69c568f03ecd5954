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
	"path/filepath"
	"sort"
	"strings"
)

// noExtensionLabel groups files without an extension in distributions.
const noExtensionLabel = "(no extension)"

// ExtensionCount is one entry of a file-type distribution.
type ExtensionCount struct {
	Extension string
	Count     int
}

// ListReport is the structured result of ListFiles.
type ListReport struct {
	Problem   *Failure
	Directory string
	Extension string
	Recursive bool

	// Total is the number of matching files. Files holds their sorted
	// relative paths, capped at MaxEntriesShown when Truncated is set, in
	// which case ExtCounts carries the distribution over all matches.
	Total     int
	Files     []string
	ExtCounts []ExtensionCount
	Truncated bool
}

func (r *ListReport) Status() Status {
	if r.Problem != nil {
		return r.Problem.Kind
	}
	return StatusOK
}

// ListFiles enumerates regular files under directory, optionally filtered
// by exact extension match and optionally recursing into subdirectories.
func (t *Toolset) ListFiles(directory, extension string, recursive bool) *ListReport {
	report := &ListReport{
		Directory: directory,
		Extension: extension,
		Recursive: recursive,
	}

	if failure := validateTarget(directory, true); failure != nil {
		report.Problem = failure
		return report
	}

	var files []string
	err := walkFiles(directory, recursive, func(relPath, fullPath string) {
		if extension != "" && fileExt(relPath) != extension {
			return
		}
		files = append(files, relPath)
	})
	if err != nil {
		report.Problem = genericFailure(directory, "listing files", err)
		return report
	}

	sort.Strings(files)
	report.Total = len(files)

	if len(files) > MaxEntriesShown {
		report.Truncated = true
		report.ExtCounts = extensionDistribution(files)
		report.Files = files[:MaxEntriesShown]
	} else {
		report.Files = files
	}

	return report
}

func (r *ListReport) Render() string {
	if r.Problem != nil {
		return r.Problem.Render()
	}

	recursiveNote := ""
	if r.Recursive {
		recursiveNote = " (including subdirectories)"
	}

	if r.Total == 0 {
		extNote := ""
		if r.Extension != "" {
			extNote = fmt.Sprintf(" (extension: %s)", r.Extension)
		}
		return fmt.Sprintf("No files found in directory %s%s%s", r.Directory, recursiveNote, extNote)
	}

	if !r.Truncated {
		var b strings.Builder
		fmt.Fprintf(&b, "Found %d files in directory %s%s:\n", r.Total, r.Directory, recursiveNote)
		writeBulletList(&b, r.Files)
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d files in directory %s%s\n\n", r.Total, r.Directory, recursiveNote)
	b.WriteString("File type distribution:\n")
	for _, ec := range r.ExtCounts {
		percentage := float64(ec.Count) / float64(r.Total) * 100
		fmt.Fprintf(&b, "  %s: %d files (%.1f%%)\n", ec.Extension, ec.Count, percentage)
	}
	fmt.Fprintf(&b, "\nFirst %d files:\n", MaxEntriesShown)
	writeBulletList(&b, r.Files)
	fmt.Fprintf(&b, "\n\nNote: too many files; only the first %d are shown. Use the extension parameter to narrow the listing.", MaxEntriesShown)
	return b.String()
}

// fileExt returns the extension of the last path segment, including the
// leading dot. Dotfiles such as ".gitignore" have no extension.
func fileExt(relPath string) string {
	base := filepath.Base(relPath)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}

// extensionDistribution counts files per extension, sorted by descending
// frequency with lexicographic tie-breaking for determinism.
func extensionDistribution(files []string) []ExtensionCount {
	counts := make(map[string]int)
	for _, f := range files {
		ext := fileExt(f)
		if ext == "" {
			ext = noExtensionLabel
		}
		counts[ext]++
	}

	dist := make([]ExtensionCount, 0, len(counts))
	for ext, count := range counts {
		dist = append(dist, ExtensionCount{Extension: ext, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Extension < dist[j].Extension
	})
	return dist
}

func writeBulletList(b *strings.Builder, items []string) {
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "  - %s", item)
	}
}
