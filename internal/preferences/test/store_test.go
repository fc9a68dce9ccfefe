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

package preferences_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/preferences"
	test "github.com/jaycherian/gcp-go-thumbnail-studio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := preferences.NewFileStore(t.TempDir(), preferences.DefaultKey)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, preferences.ErrNotFound)

	kit := &model.BrandKit{
		Name:             "Neon Nights",
		Colors:           []string{"#FF00FF", "#00FFFF"},
		FontPairing:      "Impact",
		StylePreferences: "Retro",
		LogoURL:          "https://example.com/logo.png",
	}
	require.NoError(t, store.Save(ctx, kit))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, kit, loaded)
	assert.FileExists(t, store.Path())
}

func TestFileStoreCorruptRecord(t *testing.T) {
	store := preferences.NewFileStore(t.TempDir(), preferences.DefaultKey)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	_, err := store.Load(context.Background())
	var parseErr *preferences.PersistenceParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, preferences.DefaultKey, parseErr.Key)
}

func TestManagerInit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := preferences.NewFileStore(dir, preferences.DefaultKey)

	manager := preferences.NewManager(store)
	require.NoError(t, manager.Init(ctx))
	assert.Nil(t, manager.Active())

	require.NoError(t, manager.Save(ctx, model.DefaultBrandKit()))
	assert.Equal(t, model.DefaultBrandKit(), manager.Active())

	restarted := preferences.NewManager(preferences.NewFileStore(dir, preferences.DefaultKey))
	require.NoError(t, restarted.Init(ctx))
	assert.Equal(t, model.DefaultBrandKit(), restarted.Active())
}

func TestManagerTreatsCorruptRecordAsAbsent(t *testing.T) {
	store := preferences.NewFileStore(t.TempDir(), preferences.DefaultKey)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"name": 42}`), 0o644))

	manager := preferences.NewManager(store)
	require.NoError(t, manager.Init(context.Background()))
	assert.Nil(t, manager.Active())
}

func TestManagerRejectsInvalidKit(t *testing.T) {
	manager := preferences.NewManager(preferences.NewFileStore(t.TempDir(), preferences.DefaultKey))
	require.NoError(t, manager.Init(context.Background()))

	err := manager.Save(context.Background(), &model.BrandKit{Name: ""})
	var validationErr *model.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Nil(t, manager.Active())
}

func TestManagerActiveIsACopy(t *testing.T) {
	manager := preferences.NewManager(preferences.NewFileStore(t.TempDir(), preferences.DefaultKey))
	require.NoError(t, manager.Save(context.Background(), model.DefaultBrandKit()))

	kit := manager.Active()
	kit.Colors[0] = "#123456"
	assert.Equal(t, "#EF4444", manager.Active().Colors[0])
}

func TestNewStoreSelectsBackend(t *testing.T) {
	config := test.CloneConfig()
	config.Preferences.Backend = cloud.PreferencesFile
	config.Preferences.Directory = t.TempDir()
	store, err := preferences.NewStore(config, nil)
	require.NoError(t, err)
	assert.IsType(t, &preferences.FileStore{}, store)

	config.Preferences.Backend = cloud.PreferencesGCS
	_, err = preferences.NewStore(config, &cloud.ServiceClients{})
	assert.Error(t, err)

	config.Preferences.Backend = "sqlite"
	_, err = preferences.NewStore(config, nil)
	assert.Error(t, err)
}

func TestGCSStoreObjectName(t *testing.T) {
	store := preferences.NewGCSStore(nil, "prefs-bucket", "users/", preferences.DefaultKey)
	assert.Equal(t, "gs://prefs-bucket/users/thumbmaster_brandkit.json", store.Object().String())
}

func TestNewStoreRedisBackend(t *testing.T) {
	config := test.CloneConfig()
	config.Preferences.Backend = cloud.PreferencesRedis
	config.Preferences.RedisAddr = ""
	_, err := preferences.NewStore(config, nil)
	assert.Error(t, err)

	config.Preferences.RedisAddr = "localhost:6379"
	store, err := preferences.NewStore(config, nil)
	require.NoError(t, err)
	redisStore, ok := store.(*preferences.RedisStore)
	require.True(t, ok)
	assert.Equal(t, preferences.DefaultKey, redisStore.Key)
}
