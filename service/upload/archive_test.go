// Copyright 2025 FIAP Grupo 11SOAT
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package upload

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArchive_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	framesDir := filepath.Join(dir, "frames")
	require.NoError(t, os.MkdirAll(framesDir, 0700))

	want := map[string][]byte{}
	var frames []string
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("frame_%04d.png", i)
		content := []byte(fmt.Sprintf("frame content %d", i))
		path := filepath.Join(framesDir, name)
		require.NoError(t, os.WriteFile(path, content, 0600))
		frames = append(frames, path)
		want[name] = content
	}

	path, name, err := BuildArchive(frames, dir, "20250601_120000")
	require.NoError(t, err)
	assert.Equal(t, "frames_20250601_120000.zip", name)
	assert.Equal(t, filepath.Join(dir, name), path)

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	got := map[string][]byte{}
	for _, entry := range reader.File {
		// entries are stored flat, no directory nesting
		assert.NotContains(t, entry.Name, "/")
		rc, err := entry.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		got[entry.Name] = content
	}

	assert.Equal(t, want, got)
}

func TestBuildArchive_Empty(t *testing.T) {
	dir := t.TempDir()

	path, name, err := BuildArchive(nil, dir, "20250601_120000")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, name))

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()
	assert.Empty(t, reader.File)
}

func TestBuildArchive_MissingFrame(t *testing.T) {
	dir := t.TempDir()

	_, _, err := BuildArchive([]string{filepath.Join(dir, "nope.png")}, dir, "ts")
	assert.Error(t, err)
}
