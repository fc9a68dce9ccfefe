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

// Package services binds the generation workflows to the application. This
// file defines the ConceptService.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/commands"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
)

// ConceptService produces a batch of concepts from the submitted form.
type ConceptService struct {
	Workflow cor.Command // Usually a *workflow.ConceptGenerationWorkflow.
}

// GenerateConcepts issues exactly one call to the concept model.
//
// Inputs:
//   - ctx: The request context.
//   - input: The submitted form; it is not modified.
//   - brandKit: The active brand kit, or nil.
//
// Outputs:
//   - []*model.ThumbnailConcept: model.BatchSize concepts in model order.
//   - error: Always a *GenerationError on failure.
func (s *ConceptService) GenerateConcepts(ctx context.Context, input model.UserInput, brandKit *model.BrandKit) ([]*model.ThumbnailConcept, error) {
	req := &model.ConceptRequest{Input: input, BrandKit: brandKit.Clone()}

	chCtx := cor.NewBaseContextWith(ctx, req)
	chCtx.Add(commands.ConceptRequestParam, req)
	s.Workflow.Execute(chCtx)

	if chCtx.HasErrors() {
		cause := chCtx.FirstError()
		slog.Error("concept generation failed", "title", input.VideoTitle, "error", cause)
		return nil, &GenerationError{Cause: cause}
	}

	concepts, ok := chCtx.Get(commands.ConceptsParam).([]*model.ThumbnailConcept)
	if !ok {
		cause := errors.New("workflow produced no concepts")
		slog.Error("concept generation failed", "title", input.VideoTitle, "error", cause)
		return nil, &GenerationError{Cause: cause}
	}
	if len(concepts) != model.BatchSize {
		cause := fmt.Errorf("%w: got %d", commands.ErrConceptCount, len(concepts))
		return nil, &GenerationError{Cause: cause}
	}
	slog.Info("concepts generated", "title", input.VideoTitle, "count", len(concepts))
	return concepts, nil
}
