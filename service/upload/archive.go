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
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BuildArchive zips the frame files into "frames_{timestamp}.zip" inside dir.
// Frames are stored flat under their basenames. Returns the archive path and
// its filename.
func BuildArchive(frames []string, dir, timestamp string) (string, string, error) {
	name := fmt.Sprintf("frames_%s.zip", timestamp)
	path := filepath.Join(dir, name)

	archive, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer archive.Close()

	writer := zip.NewWriter(archive)
	for _, frame := range frames {
		if err := addFileToZip(writer, frame); err != nil {
			writer.Close()
			return "", "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", "", err
	}

	return path, name, nil
}

func addFileToZip(writer *zip.Writer, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(filename)
	header.Method = zip.Deflate

	entry, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(entry, file)
	return err
}
