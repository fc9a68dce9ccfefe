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

// Package model defines the core data structures for the application.
// This file, `concept.go`, holds the thumbnail concept record that flows from
// the generative model to the concept collection, together with the draft
// shape the model is asked to return.
package model

import "slices"

// ConceptIntents are the fixed design directions requested for every batch.
// The order here is the order communicated to the model.
var ConceptIntents = []string{
	`"High Energy" variant (Bright, loud, expressive)`,
	`"Minimalist/Clean" variant (Negative space, clear subject)`,
	`"Storyteller" variant (Intriguing background, action shot)`,
	`"A/B Test Wildcard" variant (Something unexpected)`,
}

// BatchSize is the number of concepts produced by a single generation call.
const BatchSize = 4

// ConceptDraft is the portion of a concept generated by the model. Every field
// is required in the declared response schema.
type ConceptDraft struct {
	ConceptName       string   `json:"conceptName"`       // Short catchy name for the design.
	TextOverlay       string   `json:"textOverlay"`       // Main text on the thumbnail, max 5 words by instruction.
	ImagePrompt       string   `json:"imagePrompt"`       // Detailed scene description for the image model.
	ColorPalette      []string `json:"colorPalette"`      // Three hex color codes.
	CompositionNote   string   `json:"compositionNote"`   // Placement instructions (e.g. face right, text left).
	PredictedCTRScore float64  `json:"predictedCTRScore"` // Estimated CTR score, 80-99 by instruction. Not clamped.
	Tags              []string `json:"tags"`              // Keywords like "Bold", "Minimal".
}

// ThumbnailConcept is one AI-proposed thumbnail design. The ID and Title are
// assigned locally; the draft fields come from the model.
type ThumbnailConcept struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	ConceptName       string   `json:"conceptName"`
	TextOverlay       string   `json:"textOverlay"`
	ImagePrompt       string   `json:"imagePrompt"`
	ColorPalette      []string `json:"colorPalette"`
	CompositionNote   string   `json:"compositionNote"`
	PredictedCTRScore float64  `json:"predictedCTRScore"`
	Tags              []string `json:"tags"`
	GeneratedImageURL string   `json:"generatedImageUrl,omitempty"` // Data URI, empty until an image exists.
	IsLoadingImage    bool     `json:"isLoadingImage"`
}

// NewThumbnailConcept builds a concept from a model draft. The image fields
// start absent and not loading.
func NewThumbnailConcept(id string, title string, draft *ConceptDraft) *ThumbnailConcept {
	return &ThumbnailConcept{
		ID:                id,
		Title:             title,
		ConceptName:       draft.ConceptName,
		TextOverlay:       draft.TextOverlay,
		ImagePrompt:       draft.ImagePrompt,
		ColorPalette:      slices.Clone(draft.ColorPalette),
		CompositionNote:   draft.CompositionNote,
		PredictedCTRScore: draft.PredictedCTRScore,
		Tags:              slices.Clone(draft.Tags),
	}
}

// Clone returns a deep copy so that callers never share slices with the
// collection that owns the original.
func (c *ThumbnailConcept) Clone() *ThumbnailConcept {
	if c == nil {
		return nil
	}
	out := *c
	out.ColorPalette = slices.Clone(c.ColorPalette)
	out.Tags = slices.Clone(c.Tags)
	return &out
}

// HasImage reports whether an image has been generated for the concept.
func (c *ThumbnailConcept) HasImage() bool {
	return len(c.GeneratedImageURL) > 0
}
