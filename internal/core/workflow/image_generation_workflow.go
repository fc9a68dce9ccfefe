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

// This file implements the image generation workflow.
package workflow

import (
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/commands"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
)

// ImageGenerationWorkflow turns a `*model.ThumbnailConcept` on the input key
// into a `*model.GeneratedImage` under commands.ImageParam. When an archive
// bucket is configured the image is also written to GCS.
type ImageGenerationWorkflow struct {
	cor.BaseCommand
	config        *cloud.Config
	genaiModel    *cloud.QuotaAwareGenerativeAIModel
	storageClient *storage.Client
	chain         cor.Chain
}

func (w *ImageGenerationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Archiving reports whether generated images are written to GCS.
func (w *ImageGenerationWorkflow) Archiving() bool {
	return w.storageClient != nil && len(w.config.Storage.GeneratedImageBucket) > 0
}

func (w *ImageGenerationWorkflow) initializeChain() error {
	promptText := w.config.PromptTemplates.ImagePrompt
	if len(promptText) == 0 {
		promptText = commands.DefaultImagePrompt
	}
	promptTemplate, err := commands.ParsePromptTemplate("image-template", promptText)
	if err != nil {
		return fmt.Errorf("failed to parse image prompt template: %w", err)
	}

	out := cor.NewBaseChain(w.GetName())

	// Step 1: Render the prompt from the concept's scene and composition notes.
	out.AddCommand(commands.NewImagePromptBuilder("build-image-prompt", promptTemplate))

	// Step 2: Single call to the image model; decode the first inline image.
	out.AddCommand(commands.NewImageGenerator("generate-image", w.genaiModel))

	// Step 3 (optional): Best effort archive to GCS.
	if w.Archiving() {
		out.AddCommand(commands.NewImageArchive(
			"archive-image",
			w.storageClient,
			w.config.Storage.GeneratedImageBucket,
			w.config.Storage.GeneratedImagePrefix))
	}

	w.chain = out
	return nil
}

// NewImageGenerationWorkflow creates the workflow.
//
// Inputs:
//   - config: The application configuration.
//   - model: The rate-limited image model.
//   - storageClient: Optional; nil disables archiving.
//
// Outputs:
//   - *ImageGenerationWorkflow: The workflow.
//   - error: The prompt template failed to parse, or the model is missing.
func NewImageGenerationWorkflow(config *cloud.Config, model *cloud.QuotaAwareGenerativeAIModel, storageClient *storage.Client) (*ImageGenerationWorkflow, error) {
	if model == nil {
		return nil, fmt.Errorf("image model %q is not configured", config.Application.ImageModel)
	}
	out := &ImageGenerationWorkflow{
		BaseCommand:   *cor.NewBaseCommand("image-generation-pipeline"),
		config:        config,
		genaiModel:    model,
		storageClient: storageClient,
	}
	if err := out.initializeChain(); err != nil {
		return nil, err
	}
	return out, nil
}
