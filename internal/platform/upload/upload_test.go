// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package upload_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/sachly/internal/platform/upload"
)

/*
TestStore_Save verifies that content is written to disk and a public URL returned.
*/
func TestStore_Save(t *testing.T) {
	dir := t.TempDir()

	store, err := upload.NewStore(dir)
	require.NoError(t, err)

	url, err := store.Save("avatar", "My Photo.PNG", strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)

	// URL shape: /static/avatar/<uuid>-my-photo.png
	assert.True(t, strings.HasPrefix(url, "/static/avatar/"))
	assert.True(t, strings.HasSuffix(url, "-my-photo.png"))

	// The file must exist on disk with the uploaded content
	storedName := strings.TrimPrefix(url, "/static/avatar/")
	data, err := os.ReadFile(filepath.Join(dir, "avatar", storedName))
	require.NoError(t, err)
	assert.Equal(t, "fake-image-bytes", string(data))
}

/*
TestStore_Save_UniqueNames verifies identical file names never collide.
*/
func TestStore_Save_UniqueNames(t *testing.T) {
	dir := t.TempDir()

	store, err := upload.NewStore(dir)
	require.NoError(t, err)

	first, err := store.Save("bookscover", "cover.jpg", strings.NewReader("a"))
	require.NoError(t, err)

	second, err := store.Save("bookscover", "cover.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestSanitizeFilename verifies normalization of hostile or unicode file names.
*/
func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "photo.png", "photo.png"},
		{"uppercase_ext", "Photo.PNG", "photo.png"},
		{"spaces", "my profile pic.jpeg", "my-profile-pic.jpeg"},
		{"accents", "Ảnh bìa.webp", "anh-bia.webp"},
		{"path_traversal", "../../etc/passwd", "etc-passwd"},
		{"empty_base", "...", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, upload.SanitizeFilename(tt.input))
		})
	}
}
