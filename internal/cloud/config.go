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

// Package cloud defines the application configuration, loaded from TOML
// files, and the clients used to reach Google Cloud and Gemini.
//
// This file centralizes all configuration-related structs.
//
// Structs:
//   - VertexAiLLMModel: Settings for one named generative model.
//   - PromptTemplates: Optional overrides for the prompt templates.
//   - Storage: Optional GCS archive for generated images.
//   - Preferences: Where the brand kit preference record lives.
//   - Telemetry: Logging and OpenTelemetry switches.
//   - Config: The top-level struct that aggregates all other configuration structs.
package cloud

import "google.golang.org/genai"

// Backend names accepted in `application.backend`.
const (
	BackendGemini = "gemini" // Gemini Developer API, authenticated with an API key.
	BackendVertex = "vertex" // Vertex AI, authenticated with application default credentials.
)

// Preference backends accepted in `preferences.backend`.
const (
	PreferencesFile  = "file"
	PreferencesGCS   = "gcs"
	PreferencesRedis = "redis"
)

// DefaultSafetySettings keeps the model from refusing ordinary thumbnail
// subjects (horror gaming, warning videos and the like).
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
}

// VertexAiLLMModel represents the configuration for a generative model.
type VertexAiLLMModel struct {
	Model              string   `toml:"model"`               // The model identifier, e.g. "gemini-2.5-flash".
	SystemInstructions string   `toml:"system_instructions"` // Optional system instructions.
	Temperature        float32  `toml:"temperature"`         // Sampling temperature. Zero leaves the server default.
	MaxTokens          int32    `toml:"max_tokens"`          // Maximum output tokens. Zero leaves the server default.
	OutputFormat       string   `toml:"output_format"`       // Response MIME type, e.g. "application/json".
	Modalities         []string `toml:"modalities"`          // Response modalities, e.g. ["IMAGE", "TEXT"].
	RateLimit          int      `toml:"rate_limit"`          // Requests per second; zero disables limiting.
}

// PromptTemplates holds optional template overrides. Empty values fall back
// to the built-in templates.
type PromptTemplates struct {
	ConceptPrompt string `toml:"concept"`
	ImagePrompt   string `toml:"image"`
}

// Storage represents the configuration for the optional generated image archive.
type Storage struct {
	GeneratedImageBucket string `toml:"generated_image_bucket"` // Bucket for archived images. Empty disables archiving.
	GeneratedImagePrefix string `toml:"generated_image_prefix"` // Object name prefix inside the bucket.
	Endpoint             string `toml:"endpoint"`               // Optional endpoint override, e.g. a local emulator.
}

// Preferences represents where the brand kit record is persisted.
type Preferences struct {
	Backend   string `toml:"backend"`    // "file", "gcs" or "redis".
	Key       string `toml:"key"`        // The single named key holding the record.
	Directory string `toml:"directory"`  // Directory for the file backend.
	Bucket    string `toml:"bucket"`     // Bucket for the gcs backend.
	Prefix    string `toml:"prefix"`     // Object name prefix for the gcs backend.
	RedisAddr string `toml:"redis_addr"` // host:port for the redis backend.
	RedisDB   int    `toml:"redis_db"`   // Database index for the redis backend.
}

// Telemetry holds logging and OpenTelemetry switches.
type Telemetry struct {
	Enabled  bool   `toml:"enabled"`   // Export traces and metrics to Google Cloud.
	LogFile  string `toml:"log_file"`  // Optional file that receives a copy of the logs.
	LogLevel string `toml:"log_level"` // debug, info, warn or error.
}

// Config represents the overall configuration for the application.
type Config struct {
	Application struct {
		Name                   string `toml:"name"`                     // The name of the application, used as the otel service name.
		GoogleProjectId        string `toml:"google_project_id"`        // The Google Cloud project ID.
		GoogleLocation         string `toml:"location"`                 // The Google Cloud location for Vertex AI.
		Backend                string `toml:"backend"`                  // "gemini" or "vertex".
		Port                   int    `toml:"port"`                     // HTTP listen port.
		ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"` // Grace period for in-flight requests.
		ConceptModel           string `toml:"concept_model"`            // Key into AgentModels for concept generation.
		ImageModel             string `toml:"image_model"`              // Key into AgentModels for image generation.
	} `toml:"application"`
	Storage         Storage                     `toml:"storage"`
	Preferences     Preferences                 `toml:"preferences"`
	Telemetry       Telemetry                   `toml:"telemetry"`
	PromptTemplates PromptTemplates             `toml:"prompt_templates"`
	AgentModels     map[string]VertexAiLLMModel `toml:"agent_models"` // Keyed by a logical name, e.g. "concept-flash".
}

// NewConfig creates a Config with its maps initialized and the defaults the
// TOML files may override.
func NewConfig() *Config {
	c := &Config{
		AgentModels: make(map[string]VertexAiLLMModel),
	}
	c.Application.Name = "thumbnail-studio"
	c.Application.Backend = BackendGemini
	c.Application.Port = 8080
	c.Application.ShutdownTimeoutSeconds = 5
	c.Application.ConceptModel = "concept-flash"
	c.Application.ImageModel = "image-flash"
	c.Preferences.Backend = PreferencesFile
	c.Preferences.Key = "thumbmaster_brandkit"
	c.Preferences.Directory = "data"
	c.Telemetry.LogLevel = "info"
	return c
}
