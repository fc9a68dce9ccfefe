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

// This file defines Studio, which ties the generation services to the concept
// collection, the active brand kit and the user facing notices.
//
// Logic Flow (concept batch):
//  1. Claim the batch slot; a second concurrent batch is rejected.
//  2. Read the active brand kit.
//  3. Generate; on success replace the collection, on failure publish the
//     banner and leave the collection untouched.
//
// Logic Flow (image):
//  1. Mark the concept loading; rejected while another image is in flight.
//  2. Generate; store the image or clear the flag. Failures publish a toast.
//     A result for a concept removed in the meantime, success or failure, is
//     dropped. The image slot is held until the call returns.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/state"
)

// MaxToasts bounds the number of retained toast notices.
const MaxToasts = 10

// ConceptGenerator is implemented by ConceptService.
type ConceptGenerator interface {
	GenerateConcepts(ctx context.Context, input model.UserInput, brandKit *model.BrandKit) ([]*model.ThumbnailConcept, error)
}

// ImageGenerator is implemented by ImageService.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, concept *model.ThumbnailConcept) (string, error)
}

// BrandKitStore is implemented by preferences.Manager.
type BrandKitStore interface {
	Active() *model.BrandKit
	Save(ctx context.Context, kit *model.BrandKit) error
}

// Notice is a transient message shown next to the concept it concerns.
type Notice struct {
	ID        string    `json:"id"`
	ConceptID string    `json:"conceptId,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notices is the current user facing error state. The banner belongs to
// concept generation; toasts belong to image generation.
type Notices struct {
	Banner string   `json:"banner,omitempty"`
	Toasts []Notice `json:"toasts"`
}

// Studio is safe for concurrent use.
type Studio struct {
	concepts ConceptGenerator
	images   ImageGenerator
	kits     BrandKitStore
	state    *state.Collection

	mu     sync.Mutex
	banner string
	toasts []Notice
}

func NewStudio(concepts ConceptGenerator, images ImageGenerator, kits BrandKitStore, collection *state.Collection) *Studio {
	return &Studio{concepts: concepts, images: images, kits: kits, state: collection}
}

// Collection exposes the concept collection for read access.
func (s *Studio) Collection() *state.Collection {
	return s.state
}

// GenerateConcepts validates the form and produces a new batch.
//
// Inputs:
//   - ctx: The request context.
//   - input: The submitted form.
//
// Outputs:
//   - []*model.ThumbnailConcept: The new collection contents.
//   - error: A *model.ValidationError, state.ErrBatchInFlight or a *GenerationError.
func (s *Studio) GenerateConcepts(ctx context.Context, input model.UserInput) ([]*model.ThumbnailConcept, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.state.BeginBatch(); err != nil {
		return nil, err
	}
	defer s.state.EndBatch()

	s.setBanner("")
	batch, err := s.concepts.GenerateConcepts(ctx, input, s.kits.Active())
	if err != nil {
		s.setBanner(err.Error())
		return nil, err
	}
	s.state.Replace(batch)
	return s.state.Snapshot(), nil
}

// GenerateImage renders the concept with the given id.
//
// Outputs:
//   - *model.ThumbnailConcept: The concept after the attempt, or nil when it
//     was discarded while the image was being generated.
//   - error: state.ErrConceptNotFound, state.ErrImageInFlight or the model
//     error. Nil when the concept was discarded, whatever the outcome.
func (s *Studio) GenerateImage(ctx context.Context, id string) (*model.ThumbnailConcept, error) {
	concept, err := s.state.BeginImage(id)
	if err != nil {
		return nil, err
	}
	defer s.state.EndImage()

	url, err := s.images.GenerateImage(ctx, concept)
	if err != nil {
		if !s.state.FailImage(id) {
			slog.Info("dropping image failure for discarded concept", "concept", id, "error", err)
			return nil, nil
		}
		s.addToast(id, ImageErrorMessage)
		return nil, err
	}
	if !s.state.CompleteImage(id, url) {
		slog.Info("dropping image for discarded concept", "concept", id)
		return nil, nil
	}
	updated, _ := s.state.Get(id)
	return updated, nil
}

// NewProject discards every concept and the banner.
func (s *Studio) NewProject() {
	s.state.Clear()
	s.setBanner("")
}

// Notices returns a copy of the current notices.
func (s *Studio) Notices() Notices {
	s.mu.Lock()
	defer s.mu.Unlock()
	toasts := make([]Notice, len(s.toasts))
	copy(toasts, s.toasts)
	return Notices{Banner: s.banner, Toasts: toasts}
}

func (s *Studio) DismissBanner() {
	s.setBanner("")
}

// DismissToast removes the toast with the given id, if present.
func (s *Studio) DismissToast(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i:i], s.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// BrandKit returns the active kit, or nil.
func (s *Studio) BrandKit() *model.BrandKit {
	return s.kits.Active()
}

// SaveBrandKit persists kit and makes it active for subsequent batches.
func (s *Studio) SaveBrandKit(ctx context.Context, kit *model.BrandKit) error {
	return s.kits.Save(ctx, kit)
}

func (s *Studio) setBanner(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = message
}

func (s *Studio) addToast(conceptID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, Notice{
		ID:        uuid.NewString(),
		ConceptID: conceptID,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(s.toasts) > MaxToasts {
		s.toasts = s.toasts[len(s.toasts)-MaxToasts:]
	}
}
