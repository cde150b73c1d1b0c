// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

// Package upload persists user-submitted files under the static asset root.
//
// # Architecture
//
// This package is an Infrastructure service. It owns the filesystem layout of
// the static directory (avatar/, bookscover/) and the mapping from stored
// files to their public /static URLs. Services call [Store.Save] BEFORE
// updating the owning database record, so a failed write never leaves a
// dangling URL in the database.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phamduc/sachly/pkg/slug"
	"github.com/phamduc/sachly/pkg/uuid"
)

// URLPrefix is the public route prefix under which stored files are served.
const URLPrefix = "/static"

// maxFilenameLen bounds the sanitized base name to keep paths portable.
const maxFilenameLen = 64

// Store writes uploaded files beneath a fixed base directory.
type Store struct {
	baseDir string
}

// NewStore creates a file store rooted at baseDir.
// The directory is created if it does not exist.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: failed to create base directory %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

/*
Save writes the uploaded content into a subdirectory of the static root.

The original file name is sanitized (accents stripped, spaces hyphenated) and
prefixed with a UUIDv7 so concurrent uploads of identically named files never
collide.

Parameters:
  - subDir: Asset category directory ("avatar", "bookscover")
  - filename: Original client-provided file name
  - content: io.Reader (The uploaded bytes)

Returns:
  - string: Public URL path (e.g. "/static/avatar/<id>-photo.png")
  - error: Filesystem failures
*/
func (store *Store) Save(subDir, filename string, content io.Reader) (string, error) {

	// 1. Ensure the category directory exists
	dir := filepath.Join(store.baseDir, subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("upload: failed to create directory %s: %w", dir, err)
	}

	// 2. Build a collision-free, sanitized file name
	safeName := SanitizeFilename(filename)
	storedName := uuid.New() + "-" + safeName

	// 3. Write the content to disk
	fullPath := filepath.Join(dir, storedName)
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("upload: failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		// Remove the partial file so the directory never holds torn writes
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("upload: failed to write file %s: %w", fullPath, err)
	}

	return URLPrefix + "/" + subDir + "/" + storedName, nil
}

// SanitizeFilename converts a client-provided file name into a safe ASCII
// name, preserving a lowercased extension.
func SanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	safeBase := slug.From(base)
	if safeBase == "" {
		safeBase = "file"
	}
	if len(safeBase) > maxFilenameLen {
		safeBase = safeBase[:maxFilenameLen]
	}

	// Extensions pass through the same sanitizer minus the dot
	if safeExt := slug.From(strings.TrimPrefix(ext, ".")); safeExt != "" {
		return safeBase + "." + safeExt
	}

	return safeBase
}
