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
// This file implements a decorator around the Gemini models handle that adds
// client-side rate limiting. It issues exactly one upstream call
// per invocation; failures are surfaced to the caller untouched.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: Binds a model name and generation config to
//     a ContentGenerator and a token-bucket limiter.
//
// Functions:
//   - NewQuotaAwareModel: A constructor for the wrapped model.
//   - GenerateContent: Waits for a limiter token and then performs the call.
package cloud

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of `*genai.Models` used by the application.
// Tests substitute a fake implementation.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel wraps a ContentGenerator with a fixed model name,
// a generation config and an optional rate limiter.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Config sent with every call. Commands may derive per-call copies.
	ModelName               string                       // The model identifier passed to the API.
	ModelHandle             ContentGenerator             // Usually `client.Models`.
	RateLimit               *rate.Limiter                // Nil disables limiting.
}

// NewQuotaAwareModel creates a QuotaAwareGenerativeAIModel.
//
// Inputs:
//   - config: The generation config sent with every call.
//   - name: The model identifier.
//   - handle: The generator that performs the call.
//   - requestsPerSecond: Allowed calls per second; zero or less disables limiting.
//
// Outputs:
//   - *QuotaAwareGenerativeAIModel: The wrapped model.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle ContentGenerator, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	out := &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
	}
	if requestsPerSecond > 0 {
		out.RateLimit = rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSecond)), requestsPerSecond)
	}
	return out
}

// GenerateContent waits for the limiter and performs a single call with the
// model's own config.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	return q.GenerateContentWithConfig(ctx, contents, q.GenerativeContentConfig)
}

// GenerateContentWithConfig is GenerateContent with a caller-supplied config,
// used when a command must add a response schema or modalities to the base config.
func (q *QuotaAwareGenerativeAIModel) GenerateContentWithConfig(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if q.ModelHandle == nil {
		return nil, fmt.Errorf("model %s has no handle", q.ModelName)
	}
	if q.RateLimit != nil {
		if err := q.RateLimit.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, contents, config)
}

// CloneConfig returns a shallow copy of the model's base config so callers can
// set per-request fields without touching the shared value.
func (q *QuotaAwareGenerativeAIModel) CloneConfig() *genai.GenerateContentConfig {
	if q.GenerativeContentConfig == nil {
		return &genai.GenerateContentConfig{}
	}
	out := *q.GenerativeContentConfig
	return &out
}
