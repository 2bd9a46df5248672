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
	"os"
	"path/filepath"

	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/uplog"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/util"
)

// Scratch is the per-request working directory. Every invocation gets its
// own, and Remove must run on every exit path (the handler defers it).
type Scratch struct {
	dir string
}

// NewScratch creates a fresh scratch directory under parent. An empty parent
// means the system temp dir.
func NewScratch(parent string) (*Scratch, error) {
	dir, err := os.MkdirTemp(parent, "proc_")
	if err != nil {
		return nil, err
	}
	return &Scratch{dir: dir}, nil
}

func (s *Scratch) Dir() string {
	return s.dir
}

// StageVideo writes the uploaded payload to "{timestamp}_{filename}" inside
// the scratch directory and returns the path.
func (s *Scratch) StageVideo(filename string, payload []byte, timestamp string) (string, error) {
	// The filename came off the wire; keep only its base so a crafted
	// name cannot escape the scratch directory.
	path := filepath.Join(s.dir, timestamp+"_"+filepath.Base(filename))
	if err := os.WriteFile(path, payload, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// FramesDir creates and returns the subdirectory the decoder writes into.
func (s *Scratch) FramesDir() (string, error) {
	dir := filepath.Join(s.dir, "frames")
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Remove deletes the scratch directory. Best-effort: cleanup failures are
// logged and never affect the response.
func (s *Scratch) Remove() {
	if err := os.RemoveAll(s.dir); err != nil {
		uplog.Warnf("Failed to remove scratch dir %s: %v", s.dir, err)
	}
}
