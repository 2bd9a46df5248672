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
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// FrameExtractor samples still frames out of a staged video file.
// The interface exists so tests can run the pipeline without a real decoder.
type FrameExtractor interface {
	// ExtractFrames decodes videoPath at 1 frame per second into framesDir
	// and returns the produced files sorted in sequence order. An empty
	// result with a nil error means the decoder ran but found no frames.
	ExtractFrames(ctx context.Context, videoPath, framesDir string) ([]string, error)
}

// FFmpegExtractor runs the ffmpeg binary.
type FFmpegExtractor struct {
	// BinPath, when set, skips binary discovery.
	BinPath string
}

func NewFFmpegExtractor(binPath string) *FFmpegExtractor {
	return &FFmpegExtractor{BinPath: binPath}
}

// Common locations for environments where ffmpeg is shipped alongside the
// function package instead of installed on PATH.
var ffmpegFallbackPaths = []string{"/opt/bin/ffmpeg", "/var/task/ffmpeg", "./ffmpeg"}

func (e *FFmpegExtractor) binary() string {
	if e.BinPath != "" {
		return e.BinPath
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path
	}
	for _, path := range ffmpegFallbackPaths {
		if info, err := os.Stat(path); err == nil && info.Mode()&0111 != 0 {
			return path
		}
	}
	// Let the invocation itself fail when ffmpeg is truly absent.
	return "ffmpeg"
}

// ExtractFrames implements FrameExtractor.
func (e *FFmpegExtractor) ExtractFrames(ctx context.Context, videoPath, framesDir string) ([]string, error) {
	pattern := filepath.Join(framesDir, "frame_%04d.png")

	cmd := exec.CommandContext(ctx, e.binary(),
		"-i", videoPath,
		"-vf", "fps=1",
		"-y",
		pattern,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("Erro no ffmpeg: %s: %w", strings.TrimSpace(string(output)), err)
	}

	frames, err := filepath.Glob(filepath.Join(framesDir, "*.png"))
	if err != nil {
		return nil, err
	}

	// Zero-padded numbering makes lexicographic order the sequence order.
	sort.Strings(frames)
	return frames, nil
}
