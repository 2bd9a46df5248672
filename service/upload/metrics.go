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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upload_processing_duration_seconds",
		Help:    "Duration of upload processing in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	uploadsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_processed_total",
		Help: "Total number of uploads processed",
	}, []string{"status"})

	framesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frames_extracted_total",
		Help: "Total number of frames extracted across all uploads",
	})
)
