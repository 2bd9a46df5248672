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
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/config"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/storage"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const testArchiveKey = "outputs/frames_20250601_120000.zip"

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Bucket:  "videos",
		Table:   "uploads",
		WorkDir: t.TempDir(),
	}
}

func newTestHandler(cfg config.Config, records storage.RecordStore, objects storage.ObjectStore, extractor FrameExtractor) *Handler {
	h := NewHandler(cfg, records, objects, extractor)
	h.now = func() time.Time { return testStart }
	return h
}

func postUpload(h *Handler, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) Result {
	t.Helper()
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestHandleUpload_Success(t *testing.T) {
	records := new(MockRecordStore)
	objects := new(MockObjectStore)
	h := newTestHandler(testConfig(t), records, objects, &fakeExtractor{frames: 5})

	records.On("CreateProcessing", mock.Anything, "user@test.com", mock.AnythingOfType("string")).Return(nil)
	objects.On("Upload", mock.Anything, mock.AnythingOfType("string"), testArchiveKey).Return(nil)
	records.On("MarkCompleted", mock.Anything, "user@test.com", mock.AnythingOfType("string"), testArchiveKey, 5).Return(nil)

	body := jsonRequestBody(t, "user@test.com", "video.mp4", []byte("video data"))
	rec := postUpload(h, "application/json", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "5 frames extraídos")
	assert.True(t, strings.HasPrefix(result.RecordID, "user@test.com_"))
	assert.Equal(t, testArchiveKey, result.S3Key)
	assert.Equal(t, 5, result.FrameCount)
	assert.Equal(t, []string{
		"frame_0001.png", "frame_0002.png", "frame_0003.png", "frame_0004.png", "frame_0005.png",
	}, result.Images)

	records.AssertExpectations(t)
	objects.AssertExpectations(t)
	records.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleUpload_SuccessMultipart(t *testing.T) {
	records := new(MockRecordStore)
	objects := new(MockObjectStore)
	h := newTestHandler(testConfig(t), records, objects, &fakeExtractor{frames: 2})

	records.On("CreateProcessing", mock.Anything, "user@test.com", mock.AnythingOfType("string")).Return(nil)
	objects.On("Upload", mock.Anything, mock.AnythingOfType("string"), testArchiveKey).Return(nil)
	records.On("MarkCompleted", mock.Anything, "user@test.com", mock.AnythingOfType("string"), testArchiveKey, 2).Return(nil)

	contentType, body := multipartRequestBody(t, false, "user@test.com", "clip.webm", []byte("webm data"))
	rec := postUpload(h, contentType, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.FrameCount)
	records.AssertExpectations(t)
}

func TestHandleUpload_UnsupportedFormat(t *testing.T) {
	records := new(MockRecordStore)
	h := newTestHandler(testConfig(t), records, new(MockObjectStore), &fakeExtractor{frames: 1})

	body := jsonRequestBody(t, "user@test.com", "clip.txt", []byte("text"))
	rec := postUpload(h, "application/json", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Formato não suportado")
	records.AssertNotCalled(t, "CreateProcessing", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleUpload_MalformedBody(t *testing.T) {
	h := newTestHandler(testConfig(t), new(MockRecordStore), new(MockObjectStore), &fakeExtractor{frames: 1})

	rec := postUpload(h, "application/json", []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Corpo inválido")
}

func TestHandleUpload_MissingConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         config.Config
		wantMessage string
	}{
		{
			name:        "missing bucket",
			cfg:         config.Config{Table: "uploads"},
			wantMessage: "BUCKET",
		},
		{
			name:        "missing table",
			cfg:         config.Config{Bucket: "videos"},
			wantMessage: "TABLE",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := new(MockRecordStore)
			h := newTestHandler(tc.cfg, records, new(MockObjectStore), &fakeExtractor{frames: 1})

			body := jsonRequestBody(t, "user@test.com", "video.mp4", []byte("data"))
			rec := postUpload(h, "application/json", body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			result := decodeResult(t, rec)
			assert.False(t, result.Success)
			assert.Contains(t, result.Message, tc.wantMessage)
			records.AssertNotCalled(t, "CreateProcessing", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleUpload_DecoderFailure(t *testing.T) {
	records := new(MockRecordStore)
	h := newTestHandler(testConfig(t), records, new(MockObjectStore),
		&fakeExtractor{err: errors.New("Erro no ffmpeg: moov atom not found")})

	records.On("CreateProcessing", mock.Anything, "user@test.com", mock.AnythingOfType("string")).Return(nil)
	records.On("MarkFailed", mock.Anything, "user@test.com", mock.AnythingOfType("string"),
		mock.MatchedBy(func(msg string) bool { return strings.Contains(msg, "moov atom not found") })).Return(nil)

	body := jsonRequestBody(t, "user@test.com", "video.mp4", []byte("data"))
	rec := postUpload(h, "application/json", body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "moov atom not found")
	records.AssertExpectations(t)
}

func TestHandleUpload_NoFrames(t *testing.T) {
	records := new(MockRecordStore)
	h := newTestHandler(testConfig(t), records, new(MockObjectStore), &fakeExtractor{frames: 0})

	records.On("CreateProcessing", mock.Anything, "user@test.com", mock.AnythingOfType("string")).Return(nil)
	records.On("MarkFailed", mock.Anything, "user@test.com", mock.AnythingOfType("string"),
		"Nenhum frame extraído do vídeo").Return(nil)

	body := jsonRequestBody(t, "user@test.com", "video.mp4", []byte("data"))
	rec := postUpload(h, "application/json", body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Success)
	assert.Equal(t, "Nenhum frame extraído do vídeo", result.Message)
	records.AssertExpectations(t)
}

func TestHandleUpload_RecordCreateFailure(t *testing.T) {
	records := new(MockRecordStore)
	h := newTestHandler(testConfig(t), records, new(MockObjectStore), &fakeExtractor{frames: 1})

	records.On("CreateProcessing", mock.Anything, "user@test.com", mock.AnythingOfType("string")).
		Return(errors.New("connection refused"))

	body := jsonRequestBody(t, "user@test.com", "video.mp4", []byte("data"))
	rec := postUpload(h, "application/json", body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "registro inicial")
	// nothing ran, so there is nothing to compensate
	records.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleUpload_ObjectStoreFailure(t *testing.T) {
	records := new(MockRecordStore)
	objects := new(MockObjectStore)
	h := newTestHandler(testConfig(t), records, objects, &fakeExtractor{frames: 3})

	records.On("CreateProcessing", mock.Anything, "user@test.com", mock.AnythingOfType("string")).Return(nil)
	objects.On("Upload", mock.Anything, mock.AnythingOfType("string"), testArchiveKey).
		Return(errors.New("bucket unavailable"))
	records.On("MarkFailed", mock.Anything, "user@test.com", mock.AnythingOfType("string"),
		mock.AnythingOfType("string")).Return(nil)

	body := jsonRequestBody(t, "user@test.com", "video.mp4", []byte("data"))
	rec := postUpload(h, "application/json", body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Success)
	records.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	records.AssertExpectations(t)
}

func TestHandleUpload_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(testConfig(t), new(MockRecordStore), new(MockObjectStore), &fakeExtractor{frames: 1})

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	completed := &storage.UploadRecord{
		Email:      "user@test.com",
		UploadID:   "abc123",
		Status:     storage.StatusCompleted,
		CreatedAt:  testStart,
		ArchiveKey: testArchiveKey,
		FrameCount: 5,
	}

	t.Run("completed record with download url", func(t *testing.T) {
		records := new(MockRecordStore)
		objects := new(MockObjectStore)
		h := newTestHandler(testConfig(t), records, objects, &fakeExtractor{})

		records.On("Get", mock.Anything, "user@test.com", "abc123").Return(completed, nil)
		signed, _ := url.Parse("https://minio.local/videos/" + testArchiveKey + "?sig=xyz")
		objects.On("PresignedGet", mock.Anything, testArchiveKey, downloadURLExpiry).Return(signed, nil)

		req := httptest.NewRequest(http.MethodGet, "/status?record_id=user@test.com_abc123", nil)
		rec := httptest.NewRecorder()
		h.HandleStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var result StatusResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		require.NotNil(t, result.Record)
		assert.Equal(t, storage.StatusCompleted, result.Record.Status)
		assert.Equal(t, signed.String(), result.DownloadURL)
	})

	t.Run("processing record has no url", func(t *testing.T) {
		records := new(MockRecordStore)
		objects := new(MockObjectStore)
		h := newTestHandler(testConfig(t), records, objects, &fakeExtractor{})

		processing := &storage.UploadRecord{
			Email:    "user@test.com",
			UploadID: "abc123",
			Status:   storage.StatusProcessing,
		}
		records.On("Get", mock.Anything, "user@test.com", "abc123").Return(processing, nil)

		req := httptest.NewRequest(http.MethodGet, "/status?record_id=user@test.com_abc123", nil)
		rec := httptest.NewRecorder()
		h.HandleStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var result StatusResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Empty(t, result.DownloadURL)
		objects.AssertNotCalled(t, "PresignedGet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("record not found", func(t *testing.T) {
		records := new(MockRecordStore)
		h := newTestHandler(testConfig(t), records, new(MockObjectStore), &fakeExtractor{})

		records.On("Get", mock.Anything, "user@test.com", "missing").Return(nil, storage.ErrRecordNotFound)

		req := httptest.NewRequest(http.MethodGet, "/status?record_id=user@test.com_missing", nil)
		rec := httptest.NewRecorder()
		h.HandleStatus(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid record id", func(t *testing.T) {
		h := newTestHandler(testConfig(t), new(MockRecordStore), new(MockObjectStore), &fakeExtractor{})

		for _, id := range []string{"", "no-separator", "trailing_"} {
			req := httptest.NewRequest(http.MethodGet, "/status?record_id="+url.QueryEscape(id), nil)
			rec := httptest.NewRecorder()
			h.HandleStatus(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "record_id %q", id)
		}
	})
}
