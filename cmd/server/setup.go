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

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/services"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/state"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/workflow"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/preferences"
	"github.com/joho/godotenv"
)

// StateManager holds the process scoped dependencies.
type StateManager struct {
	config      *cloud.Config
	cloud       *cloud.ServiceClients
	preferences *preferences.Manager
	studio      *services.Studio
}

var app = &StateManager{}

// SetupOS loads an optional `.env` file and defaults the config location.
func SetupOS() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if len(os.Getenv(cloud.EnvConfigFilePrefix)) == 0 {
		if err := os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if len(os.Getenv(cloud.EnvConfigRuntime)) == 0 {
		return os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return nil
}

// GetConfig loads the configuration once.
func GetConfig() (*cloud.Config, error) {
	if app.config == nil {
		if err := SetupOS(); err != nil {
			return nil, err
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			return nil, err
		}
		app.config = config
	}
	return app.config, nil
}

// InitState creates the clients, loads the brand kit and assembles the studio.
func InitState(ctx context.Context, config *cloud.Config) error {
	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	app.cloud = cloudClients

	store, err := preferences.NewStore(config, cloudClients)
	if err != nil {
		return err
	}
	app.preferences = preferences.NewManager(store)
	if err = app.preferences.Init(ctx); err != nil {
		return fmt.Errorf("failed to load brand kit: %w", err)
	}
	if kit := app.preferences.Active(); kit != nil {
		slog.Info("brand kit loaded", "name", kit.Name)
	}

	conceptWorkflow, err := workflow.NewConceptGenerationWorkflow(config, cloudClients.AgentModels[config.Application.ConceptModel])
	if err != nil {
		return err
	}
	imageWorkflow, err := workflow.NewImageGenerationWorkflow(config, cloudClients.AgentModels[config.Application.ImageModel], cloudClients.StorageClient)
	if err != nil {
		return err
	}
	if imageWorkflow.Archiving() {
		slog.Info("archiving generated images", "bucket", config.Storage.GeneratedImageBucket)
	}

	app.studio = services.NewStudio(
		&services.ConceptService{Workflow: conceptWorkflow},
		&services.ImageService{Workflow: imageWorkflow},
		app.preferences,
		state.NewCollection())
	return nil
}
