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

package storage

import (
	"context"
	"net/url"
	"time"
)

// Upload record statuses. A record is created as PROCESSING and moves
// exactly once to COMPLETED or FAILED.
const (
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// UploadRecord tracks the state of one upload, keyed by (email, upload id).
type UploadRecord struct {
	Email      string    `json:"idEmail"`
	UploadID   string    `json:"idUpload"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ArchiveKey string    `json:"s3_key,omitempty"`
	FrameCount int       `json:"frame_count,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// RecordStore persists upload status records.
type RecordStore interface {
	// CreateProcessing inserts a fresh PROCESSING record.
	CreateProcessing(ctx context.Context, email, uploadID string) error

	// MarkCompleted transitions the record to COMPLETED and stores the
	// archive key and frame count.
	MarkCompleted(ctx context.Context, email, uploadID, archiveKey string, frameCount int) error

	// MarkFailed transitions the record to FAILED with a short reason.
	MarkFailed(ctx context.Context, email, uploadID, message string) error

	// Get retrieves a record by its key.
	Get(ctx context.Context, email, uploadID string) (*UploadRecord, error)
}

// ObjectStore holds the output archives.
type ObjectStore interface {
	// Upload stores a local file under the given object key.
	Upload(ctx context.Context, localPath, key string) error

	// PresignedGet generates a temporary download URL for an object.
	PresignedGet(ctx context.Context, key string, expires time.Duration) (*url.URL, error)
}
