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

package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewUploadID returns a random, globally unique upload identifier.
// Dashes are stripped so the id can be embedded in record keys and
// filenames without separators colliding.
func NewUploadID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
