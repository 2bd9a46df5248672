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
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/config"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/storage"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/uplog"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/util"
)

// All archives land under this key prefix in the bucket.
const outputPrefix = "outputs/"

const downloadURLExpiry = 5 * time.Minute

// Handler orchestrates the upload pipeline: parse, validate, create record,
// stage, extract frames, archive, upload, complete record.
type Handler struct {
	cfg       config.Config
	records   storage.RecordStore
	objects   storage.ObjectStore
	extractor FrameExtractor

	// now is swapped out in tests for deterministic timestamps.
	now func() time.Time
}

func NewHandler(cfg config.Config, records storage.RecordStore, objects storage.ObjectStore, extractor FrameExtractor) *Handler {
	return &Handler{
		cfg:       cfg,
		records:   records,
		objects:   objects,
		extractor: extractor,
		now:       time.Now,
	}
}

// Register mounts the handler's routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/upload", h.HandleUpload)
	mux.HandleFunc("/status", h.HandleStatus)
}

// HandleUpload runs one full pipeline invocation.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, Result{Success: false, Message: "Método não permitido"})
		return
	}

	// Required configuration, checked before any processing.
	if h.cfg.Bucket == "" {
		writeError(w, newError(KindConfig, "Variável de ambiente BUCKET não configurada", nil))
		return
	}
	if h.cfg.Table == "" {
		writeError(w, newError(KindConfig, "Variável de ambiente TABLE não configurada", nil))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, newError(KindMalformedRequest, "Corpo inválido: esperado JSON ou multipart/form-data", err))
		return
	}

	base64Encoded := strings.EqualFold(r.Header.Get("Content-Transfer-Encoding"), "base64")
	req, err := ParseRequest(r.Header.Get("Content-Type"), base64Encoded, body)
	if err != nil {
		uplog.Debugf("Rejected request body: %v", err)
		writeError(w, err)
		return
	}

	if !IsSupportedVideo(req.Filename) {
		writeError(w, newError(KindUnsupportedFormat, "Formato não suportado", nil))
		return
	}

	ctx := r.Context()
	start := h.now()
	timestamp := start.Format("20060102_150405")
	uploadID := util.NewUploadID()
	recordID := req.Email + "_" + uploadID

	uplog.Infof("Processing upload %s (%s, %d bytes)", recordID, req.Filename, len(req.Payload))

	if err := h.records.CreateProcessing(ctx, req.Email, uploadID); err != nil {
		uplog.Errorf("Failed to create initial record %s: %v", recordID, err)
		h.observe(start, "error")
		writeError(w, newError(KindRecordStore, "Erro ao gravar registro inicial no banco: "+err.Error(), err))
		return
	}

	result, err := h.process(ctx, req, uploadID, timestamp)
	if err != nil {
		uplog.Errorf("Processing failed for %s: %v", recordID, err)
		h.markFailed(ctx, req.Email, uploadID, err)
		h.observe(start, "error")
		writeError(w, err)
		return
	}

	h.observe(start, "success")
	result.RecordID = recordID
	uplog.Infof("Upload %s completed with %d frames", recordID, result.FrameCount)
	writeJSON(w, http.StatusOK, result)
}

// process runs everything after the initial record write. The scratch
// directory is removed on every return path.
func (h *Handler) process(ctx context.Context, req *UploadRequest, uploadID, timestamp string) (*Result, error) {
	scratch, err := NewScratch(h.cfg.WorkDir)
	if err != nil {
		return nil, newError(KindIO, "Erro interno: "+err.Error(), err)
	}
	defer scratch.Remove()

	videoPath, err := scratch.StageVideo(req.Filename, req.Payload, timestamp)
	if err != nil {
		return nil, newError(KindIO, "Erro interno: "+err.Error(), err)
	}

	framesDir, err := scratch.FramesDir()
	if err != nil {
		return nil, newError(KindIO, "Erro interno: "+err.Error(), err)
	}

	frames, err := h.extractor.ExtractFrames(ctx, videoPath, framesDir)
	if err != nil {
		return nil, newError(KindDecoder, "Erro interno: "+err.Error(), err)
	}
	if len(frames) == 0 {
		return nil, newError(KindNoFrames, "Nenhum frame extraído do vídeo", nil)
	}

	zipPath, zipName, err := BuildArchive(frames, scratch.Dir(), timestamp)
	if err != nil {
		return nil, newError(KindIO, "Erro interno: "+err.Error(), err)
	}

	key := outputPrefix + zipName
	if err := h.objects.Upload(ctx, zipPath, key); err != nil {
		return nil, newError(KindObjectStore, "Erro interno: "+err.Error(), err)
	}

	if err := h.records.MarkCompleted(ctx, req.Email, uploadID, key, len(frames)); err != nil {
		return nil, newError(KindRecordStore, "Erro interno: "+err.Error(), err)
	}

	framesExtractedTotal.Add(float64(len(frames)))

	images := make([]string, len(frames))
	for i, frame := range frames {
		images[i] = filepath.Base(frame)
	}

	return &Result{
		Success:    true,
		Message:    fmt.Sprintf("Processamento concluído! %d frames extraídos.", len(frames)),
		S3Key:      key,
		FrameCount: len(frames),
		Images:     images,
	}, nil
}

// markFailed is the compensating write for a pipeline failure: without it the
// record would sit at PROCESSING forever. Best-effort only.
func (h *Handler) markFailed(ctx context.Context, email, uploadID string, cause error) {
	message := "Erro interno"
	var perr *PipelineError
	if errors.As(cause, &perr) {
		message = perr.Message
	}
	if err := h.records.MarkFailed(ctx, email, uploadID, message); err != nil {
		uplog.Warnf("Failed to mark record %s_%s as failed: %v", email, uploadID, err)
	}
}

func (h *Handler) observe(start time.Time, status string) {
	uploadProcessingDuration.WithLabelValues(status).Observe(h.now().Sub(start).Seconds())
	uploadsProcessedTotal.WithLabelValues(status).Inc()
}

// HandleStatus reports an upload record and, once completed, a temporary
// download URL for its archive.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, StatusResult{Success: false, Message: "Método não permitido"})
		return
	}

	if h.cfg.Table == "" {
		writeJSON(w, http.StatusInternalServerError, StatusResult{Success: false, Message: "Variável de ambiente TABLE não configurada"})
		return
	}

	recordID := r.URL.Query().Get("record_id")
	// Upload ids never contain underscores, so the last one separates the
	// email from the id even when the email itself has underscores.
	sep := strings.LastIndex(recordID, "_")
	if sep <= 0 || sep == len(recordID)-1 {
		writeJSON(w, http.StatusBadRequest, StatusResult{Success: false, Message: "Parâmetro record_id inválido"})
		return
	}
	email, uploadID := recordID[:sep], recordID[sep+1:]

	ctx := r.Context()
	record, err := h.records.Get(ctx, email, uploadID)
	if errors.Is(err, storage.ErrRecordNotFound) {
		writeJSON(w, http.StatusNotFound, StatusResult{Success: false, Message: "Registro não encontrado"})
		return
	}
	if err != nil {
		uplog.Errorf("Failed to read record %s: %v", recordID, err)
		writeJSON(w, http.StatusInternalServerError, StatusResult{Success: false, Message: "Erro interno"})
		return
	}

	result := StatusResult{Success: true, Record: record}
	if h.objects != nil && record.Status == storage.StatusCompleted && record.ArchiveKey != "" {
		url, err := h.objects.PresignedGet(ctx, record.ArchiveKey, downloadURLExpiry)
		if err != nil {
			uplog.Errorf("Failed to presign %s: %v", record.ArchiveKey, err)
		} else {
			result.DownloadURL = url.String()
		}
	}

	writeJSON(w, http.StatusOK, result)
}
