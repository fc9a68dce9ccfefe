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

// Package cloud provides components for interacting with Google Cloud services.
// This file initializes and holds the client objects the application needs:
// the Gemini client, the optional GCS client and the configured agent models.
//
// Logic Flow:
//  1. `NewCloudServiceClients` is called at application startup with the loaded `Config`.
//  2. It creates the GenAI client for the configured backend (API key or Vertex AI).
//  3. It creates a GCS client only when a component is configured to use one.
//  4. It wraps every configured agent model in a `QuotaAwareGenerativeAIModel`.
//
// Structs:
//   - ServiceClients: A container struct holding the initialized clients.
//
// Functions:
//   - NewCloudServiceClients: Creates all clients based on the configuration.
//   - NewAgentModels: Builds the quota-aware models over any ContentGenerator.
//   - Close: Releases client connections.
package cloud

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"google.golang.org/genai"
)

// ServiceClients is the central container for external clients.
type ServiceClients struct {
	GenAIClient   *genai.Client                           // Client for Gemini, either the Developer API or Vertex AI.
	StorageClient *storage.Client                         // Client for GCS. Nil when nothing is configured to use GCS.
	AgentModels   map[string]*QuotaAwareGenerativeAIModel // Configured models keyed by their logical name.
}

// Close releases the client connections that support it.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
}

// NeedsStorage reports whether any configured component persists to GCS.
func (c *Config) NeedsStorage() bool {
	return len(c.Storage.GeneratedImageBucket) > 0 || c.Preferences.Backend == PreferencesGCS
}

// NewGenAIClientConfig builds the client config for the configured backend.
func NewGenAIClientConfig(config *Config) (*genai.ClientConfig, error) {
	switch config.Application.Backend {
	case BackendVertex:
		return &genai.ClientConfig{
			Project:  config.Application.GoogleProjectId,
			Location: config.Application.GoogleLocation,
			Backend:  genai.BackendVertexAI,
		}, nil
	case BackendGemini, "":
		apiKey := os.Getenv(EnvGeminiAPIKey)
		if len(apiKey) == 0 {
			return nil, fmt.Errorf("%s is not set", EnvGeminiAPIKey)
		}
		return &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}, nil
	default:
		return nil, fmt.Errorf("unknown genai backend %q", config.Application.Backend)
	}
}

// NewStorageClient creates a GCS client, honoring an endpoint override.
func NewStorageClient(ctx context.Context, config *Config) (*storage.Client, error) {
	opts := make([]option.ClientOption, 0)
	if len(config.Storage.Endpoint) > 0 {
		opts = append(opts, option.WithEndpoint(config.Storage.Endpoint), option.WithoutAuthentication())
	}
	return storage.NewClient(ctx, opts...)
}

// NewAgentModels wraps every configured agent model around the given handle.
//
// Inputs:
//   - config: The application configuration.
//   - handle: The generator used for all models, usually `client.Models`.
//
// Outputs:
//   - map[string]*QuotaAwareGenerativeAIModel: Models keyed by logical name.
func NewAgentModels(config *Config, handle ContentGenerator) map[string]*QuotaAwareGenerativeAIModel {
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		model := &genai.GenerateContentConfig{
			MaxOutputTokens:    values.MaxTokens,
			SafetySettings:     DefaultSafetySettings,
			ResponseMIMEType:   values.OutputFormat,
			ResponseModalities: values.Modalities,
		}
		if values.Temperature > 0 {
			model.Temperature = genai.Ptr[float32](values.Temperature)
		}
		if len(values.SystemInstructions) > 0 {
			model.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
		}
		agentModels[amKey] = NewQuotaAwareModel(model, values.Model, handle, values.RateLimit)
	}
	return agentModels
}

// NewCloudServiceClients initializes the clients required by the configuration.
//
// Inputs:
//   - ctx: The root context for the application.
//   - config: The loaded application configuration.
//
// Outputs:
//   - *ServiceClients: The initialized clients.
//   - error: The first client that failed to initialize.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	clientConfig, err := NewGenAIClientConfig(config)
	if err != nil {
		return nil, err
	}
	gc, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}
	slog.Info("genai client created", "backend", config.Application.Backend, "models", len(config.AgentModels))

	out := &ServiceClients{
		GenAIClient: gc,
		AgentModels: NewAgentModels(config, gc.Models),
	}

	if config.NeedsStorage() {
		sc, err := NewStorageClient(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("error creating storage client: %w", err)
		}
		out.StorageClient = sc
	}
	return out, nil
}
