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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// walkFiles enumerates regular files under dir and calls fn with the path
// relative to dir (the bare name in shallow mode) and the full path.
//
// Only a failure to read dir itself is returned; unreadable subdirectories
// and entries that vanish mid-walk are skipped so that one bad branch does
// not abort the whole traversal.
func walkFiles(dir string, recursive bool, fn func(relPath, fullPath string)) error {
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			fn(entry.Name(), filepath.Join(dir, entry.Name()))
		}
		return nil
	}

	var rootErr error
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				rootErr = err
				return errors.New("root unreadable")
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		fn(rel, path)
		return nil
	})
	if rootErr != nil {
		return rootErr
	}
	return err
}

// fileScan is the per-file outcome of a content scan: either the decoded
// text or the reason the file was skipped. Making the skip explicit keeps
// the "ignore unreadable files" policy of SearchFiles a testable branch.
type fileScan struct {
	RelPath string
	Content string
	Skip    error
}

// scanFile reads and decodes one candidate file. Any read or decode
// problem is recorded as a skip reason, never propagated.
func scanFile(relPath, fullPath string) fileScan {
	content, failure := readTextFile(fullPath)
	if failure != nil {
		return fileScan{RelPath: relPath, Skip: errors.New(failure.Message)}
	}
	return fileScan{RelPath: relPath, Content: content}
}

// readTextFile reads a file and verifies it decodes as text. The returned
// Failure carries the error category (decode, permission, generic).
func readTextFile(path string) (string, *Failure) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", permissionFailure(path)
		}
		return "", genericFailure(path, "reading file", err)
	}
	if !isTextContent(data) {
		return "", decodeFailure(path)
	}
	return string(data), nil
}

// isTextContent reports whether data looks like decodable text rather than
// binary. UTF-8 validity plus a non-printable-byte heuristic over a sample.
func isTextContent(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if !utf8.Valid(data) {
		return false
	}

	const sampleSize = 8192
	limit := len(data)
	if limit > sampleSize {
		limit = sampleSize
	}

	var nonPrintable int
	for _, b := range data[:limit] {
		switch b {
		case '\n', '\r', '\t':
			continue
		}
		if b == 0 {
			return false
		}
		if b < 0x20 || b == 0x7f {
			nonPrintable++
		}
	}

	return nonPrintable*20 < limit
}
