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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/storage"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/uplog"
)

// Result is the response body of the upload endpoint.
type Result struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	RecordID   string   `json:"record_id,omitempty"`
	S3Key      string   `json:"s3_key,omitempty"`
	FrameCount int      `json:"frame_count,omitempty"`
	Images     []string `json:"images,omitempty"`
}

// StatusResult is the response body of the status endpoint.
type StatusResult struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message,omitempty"`
	Record      *storage.UploadRecord `json:"record,omitempty"`
	DownloadURL string                `json:"download_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		uplog.Errorf("Failed to encode response: %v", err)
	}
}

// writeError converts any pipeline error into its JSON failure response.
// Unknown errors become a generic 500 so internal detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	var perr *PipelineError
	if errors.As(err, &perr) {
		writeJSON(w, perr.HTTPStatus(), Result{Success: false, Message: perr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, Result{Success: false, Message: "Erro interno"})
}
