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

import "net/http"

// Kind classifies a pipeline failure. Every failure the handler can produce
// belongs to exactly one kind, and the kind decides the HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindConfig
	KindMalformedRequest
	KindUnsupportedFormat
	KindRecordStore
	KindIO
	KindDecoder
	KindNoFrames
	KindObjectStore
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindMalformedRequest:
		return "malformed_request"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindRecordStore:
		return "record_store"
	case KindIO:
		return "io"
	case KindDecoder:
		return "decoder"
	case KindNoFrames:
		return "no_frames"
	case KindObjectStore:
		return "object_store"
	default:
		return "internal"
	}
}

// PipelineError carries a user-facing message and the wrapped cause.
// The message is what the caller sees; the cause only reaches the logs.
type PipelineError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status code. Only request
// validation failures are the caller's fault.
func (e *PipelineError) HTTPStatus() int {
	switch e.Kind {
	case KindMalformedRequest, KindUnsupportedFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}
