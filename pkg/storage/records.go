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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRecordNotFound is returned by Get when no record exists for the key.
var ErrRecordNotFound = errors.New("upload record not found")

// RedisRecordStore implements RecordStore on Redis. Records are stored as
// JSON values under "{table}:{email}_{uploadID}", where table is the logical
// table name from configuration.
type RedisRecordStore struct {
	client redis.Cmdable
	table  string

	// now is swapped out in tests for deterministic timestamps.
	now func() time.Time
}

// NewRedisRecordStore connects to Redis and verifies the connection.
func NewRedisRecordStore(ctx context.Context, addr, table string) (*RedisRecordStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("record store: connecting to redis at %s: %w", addr, err)
	}
	return &RedisRecordStore{client: client, table: table, now: time.Now}, nil
}

func (s *RedisRecordStore) key(email, uploadID string) string {
	return fmt.Sprintf("%s:%s_%s", s.table, email, uploadID)
}

func (s *RedisRecordStore) put(ctx context.Context, record *UploadRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	// Records are durable status entries, not cache: no TTL.
	return s.client.Set(ctx, s.key(record.Email, record.UploadID), data, 0).Err()
}

// CreateProcessing implements RecordStore.
func (s *RedisRecordStore) CreateProcessing(ctx context.Context, email, uploadID string) error {
	record := &UploadRecord{
		Email:     email,
		UploadID:  uploadID,
		Status:    StatusProcessing,
		CreatedAt: s.now().UTC(),
	}
	if err := s.put(ctx, record); err != nil {
		return fmt.Errorf("record store: creating record: %w", err)
	}
	return nil
}

// MarkCompleted implements RecordStore.
func (s *RedisRecordStore) MarkCompleted(ctx context.Context, email, uploadID, archiveKey string, frameCount int) error {
	record, err := s.Get(ctx, email, uploadID)
	if err != nil {
		return err
	}

	record.Status = StatusCompleted
	record.ArchiveKey = archiveKey
	record.FrameCount = frameCount
	if err := s.put(ctx, record); err != nil {
		return fmt.Errorf("record store: updating record: %w", err)
	}
	return nil
}

// MarkFailed implements RecordStore.
func (s *RedisRecordStore) MarkFailed(ctx context.Context, email, uploadID, message string) error {
	record, err := s.Get(ctx, email, uploadID)
	if err != nil {
		return err
	}

	record.Status = StatusFailed
	record.Message = message
	if err := s.put(ctx, record); err != nil {
		return fmt.Errorf("record store: updating record: %w", err)
	}
	return nil
}

// Get implements RecordStore.
func (s *RedisRecordStore) Get(ctx context.Context, email, uploadID string) (*UploadRecord, error) {
	val, err := s.client.Get(ctx, s.key(email, uploadID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record store: reading record: %w", err)
	}

	var record UploadRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("record store: decoding record: %w", err)
	}
	return &record, nil
}

// Close closes the underlying Redis connection.
func (s *RedisRecordStore) Close() error {
	if client, ok := s.client.(*redis.Client); ok {
		return client.Close()
	}
	return nil
}
