// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package preferences

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
)

// FileStore keeps the record as `<dir>/<key>.json`.
type FileStore struct {
	Directory string
	Key       string
}

func NewFileStore(directory string, key string) *FileStore {
	return &FileStore{Directory: directory, Key: key}
}

func (s *FileStore) Path() string {
	return filepath.Join(s.Directory, s.Key+".json")
}

func (s *FileStore) Load(_ context.Context) (*model.BrandKit, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path(), err)
	}
	return decode(s.Key, data)
}

// Save writes to a temp file in the same directory and renames it over the
// record so readers never see a partial write.
func (s *FileStore) Save(_ context.Context, kit *model.BrandKit) error {
	data, err := encode(kit)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(s.Directory, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Directory, err)
	}
	tmp, err := os.CreateTemp(s.Directory, s.Key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path())
}
