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
	"os"
)

const (
	// the owner can make/remove files inside the directory
	privateDirMode = 0700
)

// Exist reports whether dirpath is an existing directory.
func Exist(dirpath string) bool {
	info, err := os.Stat(dirpath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates dirpath (and parents) if it does not exist yet.
func EnsureDir(dirpath string) error {
	if Exist(dirpath) {
		return nil
	}
	return os.MkdirAll(dirpath, privateDirMode)
}
