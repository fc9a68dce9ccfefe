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

// This file defines the command that calls the concept model with the
// rendered prompt and a JSON response schema.
package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// ConceptTemperature is the sampling temperature of every concept request.
const ConceptTemperature float32 = 0.7

// ConceptGenerator sends the prompt contents to the concept model and places
// the raw JSON text on the output key.
type ConceptGenerator struct {
	cor.BaseCommand
	generativeAIModel  *cloud.QuotaAwareGenerativeAIModel
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
}

// NewConceptGenerator creates the command.
//
// Inputs:
//   - name: The command name.
//   - model: The rate-limited concept model.
//
// Outputs:
//   - *ConceptGenerator: The command.
func NewConceptGenerator(name string, model *cloud.QuotaAwareGenerativeAIModel) *ConceptGenerator {
	out := &ConceptGenerator{BaseCommand: *cor.NewBaseCommand(name), generativeAIModel: model}
	out.inputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	out.outputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	return out
}

// RequestConfig derives the per-call config: the model's base config plus the
// JSON output contract and the fixed temperature.
func (c *ConceptGenerator) RequestConfig() *genai.GenerateContentConfig {
	config := c.generativeAIModel.CloneConfig()
	config.ResponseMIMEType = "application/json"
	config.ResponseSchema = ConceptResponseSchema()
	config.Temperature = genai.Ptr(ConceptTemperature)
	return config
}

func (c *ConceptGenerator) Execute(context cor.Context) {
	contents, ok := context.Get(c.GetInputParam()).([]*genai.Content)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not prompt contents", c.GetName()))
		return
	}

	span := trace.SpanFromContext(context.GetContext())
	span.SetAttributes(attribute.String("model", c.generativeAIModel.ModelName))

	resp, err := cloud.GenerateResponse(context.GetContext(), c.inputTokenCounter, c.outputTokenCounter, c.generativeAIModel, contents, c.RequestConfig())
	if err != nil {
		c.Fail(context, err)
		return
	}

	value, err := cloud.ResponseText(resp)
	if err != nil {
		c.Fail(context, err)
		return
	}
	span.SetAttributes(attribute.Int("response.length", len(value)))

	c.Succeed(context)
	context.Add(c.GetOutputParam(), value)
}
