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

// Package preferences persists the active brand kit under a single named key.
// The record survives restarts; it is loaded once when the process starts and
// written on every save.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the record name used when none is configured.
const DefaultKey = "thumbmaster_brandkit"

// ErrNotFound is returned by a Store when no record exists.
var ErrNotFound = errors.New("preference record not found")

// PersistenceParseError reports a stored record that could not be decoded.
type PersistenceParseError struct {
	Key   string
	Cause error
}

func (e *PersistenceParseError) Error() string {
	return fmt.Sprintf("failed to parse preference record %s: %v", e.Key, e.Cause)
}

func (e *PersistenceParseError) Unwrap() error {
	return e.Cause
}

// Store reads and writes the raw brand kit record.
type Store interface {
	Load(ctx context.Context) (*model.BrandKit, error)
	Save(ctx context.Context, kit *model.BrandKit) error
}

// encode and decode are shared by the store implementations.
func encode(kit *model.BrandKit) ([]byte, error) {
	return json.MarshalIndent(kit, "", "  ")
}

func decode(key string, data []byte) (*model.BrandKit, error) {
	out := &model.BrandKit{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, &PersistenceParseError{Key: key, Cause: err}
	}
	if err := out.Validate(); err != nil {
		return nil, &PersistenceParseError{Key: key, Cause: err}
	}
	return out, nil
}

// NewStore builds the store selected by the configuration.
//
// Inputs:
//   - config: The application configuration.
//   - clients: The service clients; the GCS backend needs a storage client.
//
// Outputs:
//   - Store: The configured store.
//   - error: Unknown backend or missing client.
func NewStore(config *cloud.Config, clients *cloud.ServiceClients) (Store, error) {
	key := config.Preferences.Key
	if len(key) == 0 {
		key = DefaultKey
	}
	switch config.Preferences.Backend {
	case "", cloud.PreferencesFile:
		return NewFileStore(config.Preferences.Directory, key), nil
	case cloud.PreferencesGCS:
		if clients == nil || clients.StorageClient == nil {
			return nil, errors.New("gcs preferences backend requires a storage client")
		}
		return NewGCSStore(clients.StorageClient, config.Preferences.Bucket, config.Preferences.Prefix, key), nil
	case cloud.PreferencesRedis:
		if len(config.Preferences.RedisAddr) == 0 {
			return nil, errors.New("redis preferences backend requires redis_addr")
		}
		client := redis.NewClient(&redis.Options{Addr: config.Preferences.RedisAddr, DB: config.Preferences.RedisDB})
		return NewRedisStore(client, key), nil
	default:
		return nil, fmt.Errorf("unknown preferences backend %q", config.Preferences.Backend)
	}
}

// Manager holds the process scoped active brand kit.
type Manager struct {
	store Store
	mu    sync.RWMutex
	kit   *model.BrandKit
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Init loads the record once. A missing record means no kit; a corrupt record
// is logged and also means no kit. Other store failures are returned.
func (m *Manager) Init(ctx context.Context) error {
	kit, err := m.store.Load(ctx)
	var parseErr *PersistenceParseError
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		kit = nil
	case errors.As(err, &parseErr):
		slog.Warn("ignoring unreadable brand kit", "key", parseErr.Key, "error", parseErr.Cause)
		kit = nil
	default:
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.kit = kit
	return nil
}

// Active returns a copy of the active kit, or nil.
func (m *Manager) Active() *model.BrandKit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.kit.Clone()
}

// Save validates and persists kit, then makes it active. The active kit is
// unchanged when persisting fails.
func (m *Manager) Save(ctx context.Context, kit *model.BrandKit) error {
	if kit == nil {
		return &model.ValidationError{Field: "brandKit", Message: "is required"}
	}
	if err := kit.Validate(); err != nil {
		return err
	}
	value := kit.Clone()
	if err := m.store.Save(ctx, value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.kit = value
	return nil
}
