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

// This file defines the command that decodes the model's JSON payload into
// concept drafts. Decoding is strict: the payload must be an array of exactly
// BatchSize objects, each carrying every required field.
package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
)

var (
	ErrMalformedPayload = errors.New("malformed concept payload")
	ErrConceptCount     = errors.New("unexpected number of concepts")
	ErrMissingField     = errors.New("concept is missing a required field")
)

// conceptWire mirrors model.ConceptDraft with pointer fields so absent keys
// can be told apart from zero values.
type conceptWire struct {
	ConceptName       *string   `json:"conceptName"`
	TextOverlay       *string   `json:"textOverlay"`
	ImagePrompt       *string   `json:"imagePrompt"`
	ColorPalette      *[]string `json:"colorPalette"`
	CompositionNote   *string   `json:"compositionNote"`
	PredictedCTRScore *float64  `json:"predictedCTRScore"`
	Tags              *[]string `json:"tags"`
}

func (w *conceptWire) toDraft(index int) (*model.ConceptDraft, error) {
	missing := func(field string) error {
		return fmt.Errorf("%w: element %d has no %s", ErrMissingField, index, field)
	}
	switch {
	case w.ConceptName == nil:
		return nil, missing("conceptName")
	case w.TextOverlay == nil:
		return nil, missing("textOverlay")
	case w.ImagePrompt == nil:
		return nil, missing("imagePrompt")
	case w.ColorPalette == nil:
		return nil, missing("colorPalette")
	case w.CompositionNote == nil:
		return nil, missing("compositionNote")
	case w.PredictedCTRScore == nil:
		return nil, missing("predictedCTRScore")
	case w.Tags == nil:
		return nil, missing("tags")
	}
	return &model.ConceptDraft{
		ConceptName:       *w.ConceptName,
		TextOverlay:       *w.TextOverlay,
		ImagePrompt:       *w.ImagePrompt,
		ColorPalette:      *w.ColorPalette,
		CompositionNote:   *w.CompositionNote,
		PredictedCTRScore: *w.PredictedCTRScore,
		Tags:              *w.Tags,
	}, nil
}

// DecodeConceptDrafts strictly decodes a concept payload.
//
// Inputs:
//   - payload: The JSON text returned by the model.
//
// Outputs:
//   - []*model.ConceptDraft: Exactly model.BatchSize drafts in payload order.
//   - error: ErrMalformedPayload, ErrConceptCount or ErrMissingField.
func DecodeConceptDrafts(payload string) ([]*model.ConceptDraft, error) {
	var wire []*conceptWire
	decoder := json.NewDecoder(bytes.NewReader([]byte(payload)))
	if err := decoder.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformedPayload)
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: payload is not an array", ErrMalformedPayload)
	}
	if len(wire) != model.BatchSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrConceptCount, len(wire), model.BatchSize)
	}

	out := make([]*model.ConceptDraft, 0, len(wire))
	for i, w := range wire {
		if w == nil {
			return nil, fmt.Errorf("%w: element %d is null", ErrMalformedPayload, i)
		}
		draft, err := w.toDraft(i)
		if err != nil {
			return nil, err
		}
		out = append(out, draft)
	}
	return out, nil
}

// ConceptJsonToStruct decodes the model payload on the input key into
// `[]*model.ConceptDraft`.
type ConceptJsonToStruct struct {
	cor.BaseCommand
}

func NewConceptJsonToStruct(name string) *ConceptJsonToStruct {
	return &ConceptJsonToStruct{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *ConceptJsonToStruct) Execute(context cor.Context) {
	payload, ok := context.Get(c.GetInputParam()).(string)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not a string payload", c.GetName()))
		return
	}
	drafts, err := DecodeConceptDrafts(payload)
	if err != nil {
		c.Fail(context, err)
		return
	}
	c.Succeed(context)
	context.Add(c.GetOutputParam(), drafts)
}
