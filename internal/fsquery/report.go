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
	"fmt"
	"io/fs"
	"os"

	"fileagent/internal/paths"
)

// Status classifies the outcome of a query.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusWrongKind
	StatusDecodeError
	StatusPermissionDenied
	StatusFailed
)

// Report is the common surface of all query results: a status kind and a
// rendering into the human-readable string handed to the model.
type Report interface {
	Status() Status
	Render() string
}

// Failure describes a query that produced no result. Kind is never
// StatusOK. Message is the full text shown to the caller.
type Failure struct {
	Kind    Status
	Path    string
	Message string
}

func (f *Failure) Status() Status { return f.Kind }
func (f *Failure) Render() string { return f.Message }

func notFoundFailure(path string, wantDir bool) *Failure {
	kind := "File"
	if wantDir {
		kind = "Directory"
	}
	return &Failure{
		Kind:    StatusNotFound,
		Path:    path,
		Message: fmt.Sprintf("%s %s does not exist", kind, path),
	}
}

func wrongKindFailure(path string, wantDir bool) *Failure {
	kind := "file"
	if wantDir {
		kind = "directory"
	}
	return &Failure{
		Kind:    StatusWrongKind,
		Path:    path,
		Message: fmt.Sprintf("Path %s is not a %s", path, kind),
	}
}

func decodeFailure(path string) *Failure {
	return &Failure{
		Kind:    StatusDecodeError,
		Path:    path,
		Message: fmt.Sprintf("Error: cannot read file '%s' (possibly a binary file)", path),
	}
}

func permissionFailure(path string) *Failure {
	return &Failure{
		Kind:    StatusPermissionDenied,
		Path:    path,
		Message: fmt.Sprintf("Error: permission denied reading '%s'", path),
	}
}

func genericFailure(path, operation string, err error) *Failure {
	return &Failure{
		Kind:    StatusFailed,
		Path:    path,
		Message: fmt.Sprintf("Error %s: %v", operation, err),
	}
}

// validateTarget checks that path names an existing entry of the expected
// kind. It returns nil when the target is usable.
func validateTarget(path string, wantDir bool) *Failure {
	if err := paths.ValidatePathString(path, maxPathLength); err != nil {
		return genericFailure(path, "validating path", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return notFoundFailure(path, wantDir)
		case errors.Is(err, fs.ErrPermission):
			return permissionFailure(path)
		default:
			return genericFailure(path, "inspecting path", err)
		}
	}

	if info.IsDir() != wantDir {
		return wrongKindFailure(path, wantDir)
	}
	return nil
}
