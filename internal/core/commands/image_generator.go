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

// This file defines the command that calls the image model and extracts the
// first inline image from the response.
package commands

import (
	"errors"
	"fmt"

	"github.com/h2non/filetype"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// ErrNoImageData is returned when no candidate part carries inline data.
var ErrNoImageData = errors.New("No image data found in response")

// DefaultImageMIMEType is used when neither the response nor the bytes name a type.
const DefaultImageMIMEType = "image/png"

// ImageModalities are the response modalities requested from the image model.
var ImageModalities = []string{"IMAGE", "TEXT"}

// ImageGenerator sends the image prompt to the image model and places a
// `*model.GeneratedImage` on the output key. Model errors are recorded
// unwrapped.
type ImageGenerator struct {
	cor.BaseCommand
	generativeAIModel  *cloud.QuotaAwareGenerativeAIModel
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
}

func NewImageGenerator(name string, model *cloud.QuotaAwareGenerativeAIModel) *ImageGenerator {
	out := &ImageGenerator{BaseCommand: *cor.NewBaseCommand(name), generativeAIModel: model}
	out.inputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	out.outputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	return out
}

// RequestConfig derives the per-call config with image output enabled.
func (c *ImageGenerator) RequestConfig() *genai.GenerateContentConfig {
	config := c.generativeAIModel.CloneConfig()
	config.ResponseModalities = ImageModalities
	config.ResponseMIMEType = ""
	config.ResponseSchema = nil
	return config
}

// ImageMIMEType returns the declared type or, when empty, the type sniffed
// from the bytes.
func ImageMIMEType(blob *genai.Blob) string {
	if len(blob.MIMEType) > 0 {
		return blob.MIMEType
	}
	if kind, err := filetype.Image(blob.Data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return DefaultImageMIMEType
}

func (c *ImageGenerator) Execute(context cor.Context) {
	contents, ok := context.Get(c.GetInputParam()).([]*genai.Content)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not prompt contents", c.GetName()))
		return
	}
	concept, _ := context.Get(ImageConceptParam).(*model.ThumbnailConcept)

	span := trace.SpanFromContext(context.GetContext())
	span.SetAttributes(attribute.String("model", c.generativeAIModel.ModelName))

	resp, err := cloud.GenerateResponse(context.GetContext(), c.inputTokenCounter, c.outputTokenCounter, c.generativeAIModel, contents, c.RequestConfig())
	if err != nil {
		c.Fail(context, err)
		return
	}

	blob, found := cloud.FirstInlineData(resp)
	if !found {
		c.Fail(context, ErrNoImageData)
		return
	}

	mimeType := ImageMIMEType(blob)
	image := &model.GeneratedImage{
		MIMEType: mimeType,
		Data:     blob.Data,
		DataURI:  cloud.DataURI(mimeType, blob.Data),
	}
	if concept != nil {
		image.ConceptID = concept.ID
	}
	span.SetAttributes(attribute.String("image.mime_type", mimeType), attribute.Int("image.size", len(blob.Data)))

	c.Succeed(context)
	context.Add(ImageParam, image)
	context.Add(c.GetOutputParam(), image)
}
