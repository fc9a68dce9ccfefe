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

package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/commands"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
)

// ImageService renders a single concept into an image.
type ImageService struct {
	Workflow cor.Command // Usually a *workflow.ImageGenerationWorkflow.
}

// GenerateImage issues exactly one call to the image model.
//
// Inputs:
//   - ctx: The request context.
//   - concept: The concept to render; only its image prompt and composition note are used.
//
// Outputs:
//   - string: The image as a `data:<mime>;base64,<payload>` URI.
//   - error: The model error as returned by the client, or ErrNoImageData.
func (s *ImageService) GenerateImage(ctx context.Context, concept *model.ThumbnailConcept) (string, error) {
	if concept == nil {
		return "", errors.New("concept is required")
	}
	chCtx := cor.NewBaseContextWith(ctx, concept)
	chCtx.Add(commands.ImageConceptParam, concept)
	s.Workflow.Execute(chCtx)

	if chCtx.HasErrors() {
		err := chCtx.FirstError()
		slog.Error("image generation failed", "concept", concept.ID, "error", err)
		return "", err
	}
	image, ok := chCtx.Get(commands.ImageParam).(*model.GeneratedImage)
	if !ok || len(image.DataURI) == 0 {
		return "", ErrNoImageData
	}
	slog.Info("image generated", "concept", concept.ID, "mime_type", image.MIMEType, "size", len(image.Data))
	return image.DataURI, nil
}
