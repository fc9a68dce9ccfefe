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

// Package services_test covers the generation services and the Studio
// orchestration with a fake Gemini generator behind real workflows.
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/commands"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/services"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-thumbnail-studio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConceptService(t *testing.T, fake *test.FakeGenerator) *services.ConceptService {
	t.Helper()
	pipeline, err := workflow.NewConceptGenerationWorkflow(test.GetConfig(), test.NewFakeModel("gemini-test", fake))
	require.NoError(t, err)
	return &services.ConceptService{Workflow: pipeline}
}

func survivedInput() model.UserInput {
	return model.UserInput{VideoTitle: "I Survived 100 Days", Niche: "Gaming", Mood: "Excited/Hype"}
}

func TestGenerateConceptsReturnsFourConcepts(t *testing.T) {
	fake := &test.FakeGenerator{Response: test.TextResponse(test.ConceptsJSON(test.SampleConcepts(4)))}
	service := newConceptService(t, fake)

	input := survivedInput()
	concepts, err := service.GenerateConcepts(context.Background(), input, nil)
	require.NoError(t, err)
	require.Len(t, concepts, 4)

	ids := map[string]bool{}
	for i, c := range concepts {
		assert.Equal(t, "I Survived 100 Days", c.Title)
		assert.Empty(t, c.GeneratedImageURL)
		assert.False(t, c.IsLoadingImage)
		assert.Equal(t, test.SampleConcepts(4)[i]["conceptName"], c.ConceptName)
		ids[c.ID] = true
	}
	assert.Len(t, ids, 4)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	prompt := calls[0].PromptText()
	assert.Contains(t, prompt, "I Survived 100 Days")
	assert.Contains(t, prompt, "Gaming")
	assert.Contains(t, prompt, "Excited/Hype")
	assert.Contains(t, prompt, "No specific brand kit. Use industry best practices for the niche.")
	assert.Equal(t, survivedInput(), input)
}

func TestGenerateConceptsUsesBrandKit(t *testing.T) {
	fake := &test.FakeGenerator{Response: test.TextResponse(test.ConceptsJSON(test.SampleConcepts(4)))}
	service := newConceptService(t, fake)

	kit := model.DefaultBrandKit()
	_, err := service.GenerateConcepts(context.Background(), survivedInput(), kit)
	require.NoError(t, err)

	prompt := fake.Calls()[0].PromptText()
	assert.Contains(t, prompt, "Apply Brand Kit: Colors [#EF4444, #FFFFFF, #000000], Style: High Contrast, Energetic.")
	assert.NotContains(t, prompt, model.NoBrandKitContext)
}

func TestGenerateConceptsMissingFieldFailsWholeBatch(t *testing.T) {
	elements := test.SampleConcepts(4)
	delete(elements[3], "tags")
	fake := &test.FakeGenerator{Response: test.TextResponse(test.ConceptsJSON(elements))}

	concepts, err := newConceptService(t, fake).GenerateConcepts(context.Background(), survivedInput(), nil)
	assert.Nil(t, concepts)

	var generationErr *services.GenerationError
	require.True(t, errors.As(err, &generationErr))
	assert.Equal(t, services.GenerationErrorMessage, err.Error())
	assert.ErrorIs(t, err, commands.ErrMissingField)
}

func TestGenerateConceptsWrapsEveryFailure(t *testing.T) {
	upstream := errors.New("API key not valid")
	tests := []struct {
		name  string
		fake  *test.FakeGenerator
		cause error
	}{
		{name: "model error", fake: &test.FakeGenerator{Err: upstream}, cause: upstream},
		{name: "wrong count", fake: &test.FakeGenerator{Response: test.TextResponse(test.ConceptsJSON(test.SampleConcepts(2)))}, cause: commands.ErrConceptCount},
		{name: "not json", fake: &test.FakeGenerator{Response: test.TextResponse("nope")}, cause: commands.ErrMalformedPayload},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newConceptService(t, tc.fake).GenerateConcepts(context.Background(), survivedInput(), nil)
			var generationErr *services.GenerationError
			require.True(t, errors.As(err, &generationErr))
			assert.ErrorIs(t, err, tc.cause)
			assert.Len(t, tc.fake.Calls(), 1)
		})
	}
}
