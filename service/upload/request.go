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
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

// UploadRequest is the normalized form of both supported wire encodings.
// All three fields are guaranteed non-empty by ParseRequest.
type UploadRequest struct {
	Email    string
	Filename string
	Payload  []byte
}

// jsonBody mirrors the JSON wire encoding. The payload travels base64-encoded
// in the "arquivo" field.
type jsonBody struct {
	Email    string `json:"email"`
	Filename string `json:"filename"`
	Arquivo  string `json:"arquivo"`
}

// ParseRequest decodes a request body into an UploadRequest. The encoding is
// selected by content type: multipart/form-data with an "email" field and a
// file part, or a JSON object with a base64 "arquivo" field. base64Encoded
// flags a body that is itself base64-wrapped (as API gateways deliver binary
// multipart bodies).
func ParseRequest(contentType string, base64Encoded bool, body []byte) (*UploadRequest, error) {
	var req UploadRequest

	if strings.Contains(contentType, "multipart/form-data") {
		raw := body
		if base64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(string(body))
			if err != nil {
				return nil, newError(KindMalformedRequest, "Erro ao parsear multipart/form-data", err)
			}
			raw = decoded
		}

		if err := parseMultipart(contentType, raw, &req); err != nil {
			return nil, err
		}
	} else {
		var decoded jsonBody
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, newError(KindMalformedRequest, "Corpo inválido: esperado JSON ou multipart/form-data", err)
		}

		req.Email = decoded.Email
		req.Filename = decoded.Filename
		if decoded.Arquivo != "" {
			payload, err := base64.StdEncoding.DecodeString(decoded.Arquivo)
			if err != nil {
				return nil, newError(KindMalformedRequest, "Arquivo base64 inválido", err)
			}
			req.Payload = payload
		}
	}

	if req.Email == "" || req.Filename == "" || len(req.Payload) == 0 {
		return nil, newError(KindMalformedRequest,
			"Parâmetros ausentes: email, filename e arquivo são obrigatórios", nil)
	}

	return &req, nil
}

func parseMultipart(contentType string, body []byte, req *UploadRequest) error {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return newError(KindMalformedRequest, "Erro ao parsear multipart/form-data", err)
	}
	boundary, ok := params["boundary"]
	if !ok {
		return newError(KindMalformedRequest, "Erro ao parsear multipart/form-data",
			errors.New("missing multipart boundary"))
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return newError(KindMalformedRequest, "Erro ao parsear multipart/form-data", err)
		}

		switch {
		case part.FileName() != "":
			payload, err := io.ReadAll(part)
			if err != nil {
				return newError(KindMalformedRequest, "Erro ao parsear multipart/form-data", err)
			}
			req.Filename = part.FileName()
			req.Payload = payload
		case part.FormName() == "email":
			value, err := io.ReadAll(part)
			if err != nil {
				return newError(KindMalformedRequest, "Erro ao parsear multipart/form-data", err)
			}
			req.Email = strings.TrimSpace(string(value))
		}
	}
}
