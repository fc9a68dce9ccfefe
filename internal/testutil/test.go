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

// Package test provides helpers shared by the test suites: the cached test
// configuration, a fake Gemini generator and canned model payloads.
package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"google.golang.org/genai"
)

// StateManager caches the configuration for the test run.
type StateManager struct {
	once   sync.Once
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// moduleRoot walks up from the working directory to the directory holding go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}

// SetupOS points the configuration loader at `<module root>/configs` with the
// "test" runtime.
func SetupOS() error {
	root, err := moduleRoot()
	if err != nil {
		return err
	}
	if err = os.Setenv(cloud.EnvConfigFilePrefix, filepath.Join(root, "configs")); err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig loads the test configuration once and returns a copy-safe pointer
// to the cached value. Callers must not modify it; use CloneConfig for that.
func GetConfig() *cloud.Config {
	state.once.Do(func() {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test configuration: %v\n", err)
		}
		state.config = config
	})
	return state.config
}

// CloneConfig returns a shallow copy of the test configuration with its own
// model map, safe to modify in a single test.
func CloneConfig() *cloud.Config {
	base := GetConfig()
	out := *base
	out.AgentModels = make(map[string]cloud.VertexAiLLMModel, len(base.AgentModels))
	for k, v := range base.AgentModels {
		out.AgentModels[k] = v
	}
	return &out
}

// GenerateCall is one recorded invocation of FakeGenerator.
type GenerateCall struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// FakeGenerator implements cloud.ContentGenerator. It answers every call with
// Response and Err, or with Handler when set.
type FakeGenerator struct {
	mu       sync.Mutex
	Response *genai.GenerateContentResponse
	Err      error
	Handler  func(ctx context.Context, call GenerateCall) (*genai.GenerateContentResponse, error)
	calls    []GenerateCall
}

func (f *FakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	call := GenerateCall{Model: model, Contents: contents, Config: config}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	handler := f.Handler
	f.mu.Unlock()
	if handler != nil {
		return handler(ctx, call)
	}
	return f.Response, f.Err
}

// Calls returns the recorded invocations in order.
func (f *FakeGenerator) Calls() []GenerateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]GenerateCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// PromptText concatenates the text parts of a call's contents.
func (c GenerateCall) PromptText() string {
	out := ""
	for _, content := range c.Contents {
		for _, part := range content.Parts {
			out += part.Text
		}
	}
	return out
}

// NewFakeModel wraps a FakeGenerator in an unthrottled model.
func NewFakeModel(name string, fake *FakeGenerator) *cloud.QuotaAwareGenerativeAIModel {
	return cloud.NewQuotaAwareModel(&genai.GenerateContentConfig{}, name, fake, 0)
}

// TextResponse is a single-candidate response with one text part.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 480,
		},
	}
}

// ImageResponse is a single-candidate response with a caption part followed
// by one inline data part.
func ImageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: []*genai.Part{
			{Text: "Here is your thumbnail."},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		}}}},
	}
}

// PNGBytes is the 8 byte PNG signature followed by an IHDR chunk header,
// enough for content sniffing.
var PNGBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
}

// SampleConcept is one element of a model concept payload.
type SampleConcept map[string]interface{}

// SampleConcepts returns n well formed payload elements.
func SampleConcepts(n int) []SampleConcept {
	names := []string{"The Shock Reveal", "Clean Countdown", "Day 1 vs Day 100", "Wildcard Mystery Box"}
	out := make([]SampleConcept, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, SampleConcept{
			"conceptName":       names[i%len(names)],
			"textOverlay":       fmt.Sprintf("100 DAYS #%d", i+1),
			"imagePrompt":       fmt.Sprintf("A survivor standing in a blocky world, variant %d", i+1),
			"colorPalette":      []string{"#FF0000", "#FFFF00", "#000000"},
			"compositionNote":   "Face right, text left",
			"predictedCTRScore": 90 + i,
			"tags":              []string{"Bold", "Gaming"},
		})
	}
	return out
}

// ConceptsJSON marshals elements as the model would return them.
func ConceptsJSON(elements []SampleConcept) string {
	data, err := json.Marshal(elements)
	if err != nil {
		panic(err)
	}
	return string(data)
}
