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
// This file contains general-purpose helpers: hierarchical configuration
// loading and the response readers shared by the Gemini commands.
//
// Functions:
//   - LoadConfig: Reads a base TOML file and then overlays an environment-specific file.
//   - GenerateResponse: Issues a single request through a quota-aware model and records token metrics.
//   - ResponseText: Concatenates the text parts of the first usable candidate.
//   - FirstInlineData: Finds the first inline binary part across the candidates.
//   - DataURI: Encodes a blob as a self-describing data URI.
package cloud

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// Cloud Constants define the names used for configuration loading.
const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for specifying the runtime (e.g., "local", "test").
	EnvGeminiAPIKey     = "GEMINI_API_KEY"    // The environment variable holding the Gemini API key.
)

// ErrEmptyResponse is returned when the model answers without any candidate content.
var ErrEmptyResponse = errors.New("model returned no candidates")

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig loads `<prefix>/.env.toml` and then overlays
// `<prefix>/.env.<runtime>.toml`. Missing files are skipped; a file that
// exists but cannot be decoded is an error.
//
// Inputs:
//   - baseConfig: A pointer to the struct that receives the decoded values.
//
// Outputs:
//   - error: The first decode failure, if any.
func LoadConfig(baseConfig any) error {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	for _, name := range []string{baseConfigFileName, envConfigFileName} {
		if !fileExists(name) {
			slog.Debug("configuration file not found, skipping", "file", name)
			continue
		}
		if _, err := toml.DecodeFile(name, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
		slog.Debug("loaded configuration file", "file", name)
	}
	return nil
}

// GenerateResponse sends one request to the model and records the token usage.
// There is no retry: a failed call is returned to the caller as-is.
//
// Inputs:
//   - ctx: The context for the request, which controls cancellation and tracing.
//   - inputTokenCounter: Counter for prompt tokens.
//   - outputTokenCounter: Counter for candidate tokens.
//   - model: The rate-limited model to call.
//   - contents: The prompt contents.
//   - config: The generation config for this call; nil uses the model's own config.
//
// Outputs:
//   - *genai.GenerateContentResponse: The raw response.
//   - error: The unmodified model error, if any.
func GenerateResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	model *QuotaAwareGenerativeAIModel,
	contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if config == nil {
		config = model.GenerativeContentConfig
	}
	resp, err := model.GenerateContentWithConfig(ctx, contents, config)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.UsageMetadata != nil {
		if inputTokenCounter != nil {
			inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		}
		if outputTokenCounter != nil {
			outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
		}
	}
	return resp, nil
}

// ResponseText concatenates the text parts of the first candidate that has
// content, stripping a surrounding markdown code fence if the model added one.
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		value := strings.TrimSpace(b.String())
		value = strings.TrimPrefix(value, "```json")
		value = strings.TrimPrefix(value, "```")
		value = strings.TrimSuffix(value, "```")
		return strings.TrimSpace(value), nil
	}
	return "", ErrEmptyResponse
}

// FirstInlineData scans the candidates' parts in order and returns the first
// part carrying inline binary data.
func FirstInlineData(resp *genai.GenerateContentResponse) (*genai.Blob, bool) {
	if resp == nil {
		return nil, false
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData, true
			}
		}
	}
	return nil, false
}

// DataURI encodes the payload as `data:<mime>;base64,<payload>`.
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
