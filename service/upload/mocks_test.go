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
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/storage"
)

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) CreateProcessing(ctx context.Context, email, uploadID string) error {
	args := m.Called(ctx, email, uploadID)
	return args.Error(0)
}

func (m *MockRecordStore) MarkCompleted(ctx context.Context, email, uploadID, archiveKey string, frameCount int) error {
	args := m.Called(ctx, email, uploadID, archiveKey, frameCount)
	return args.Error(0)
}

func (m *MockRecordStore) MarkFailed(ctx context.Context, email, uploadID, message string) error {
	args := m.Called(ctx, email, uploadID, message)
	return args.Error(0)
}

func (m *MockRecordStore) Get(ctx context.Context, email, uploadID string) (*storage.UploadRecord, error) {
	args := m.Called(ctx, email, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadRecord), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, localPath, key string) error {
	args := m.Called(ctx, localPath, key)
	return args.Error(0)
}

func (m *MockObjectStore) PresignedGet(ctx context.Context, key string, expires time.Duration) (*url.URL, error) {
	args := m.Called(ctx, key, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

// fakeExtractor stands in for ffmpeg: it writes the requested number of
// frame files into framesDir so the archive step has real files to zip.
type fakeExtractor struct {
	frames int
	err    error
}

func (f *fakeExtractor) ExtractFrames(ctx context.Context, videoPath, framesDir string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, f.frames)
	for i := 1; i <= f.frames; i++ {
		path := filepath.Join(framesDir, fmt.Sprintf("frame_%04d.png", i))
		if err := os.WriteFile(path, []byte("fake png data"), 0600); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}
