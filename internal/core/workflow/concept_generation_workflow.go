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

// Package workflow combines commands into the generation pipelines. This file
// implements the concept generation workflow.
package workflow

import (
	"fmt"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/commands"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
)

// ConceptGenerationWorkflow turns a `*model.ConceptRequest` on the input key
// into a batch of `[]*model.ThumbnailConcept` under commands.ConceptsParam.
// It issues exactly one call to the concept model.
type ConceptGenerationWorkflow struct {
	cor.BaseCommand
	config     *cloud.Config
	genaiModel *cloud.QuotaAwareGenerativeAIModel
	chain      cor.Chain
}

func (w *ConceptGenerationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the command sequence. The output of each step is the
// input of the next.
func (w *ConceptGenerationWorkflow) initializeChain() error {
	promptText := w.config.PromptTemplates.ConceptPrompt
	if len(promptText) == 0 {
		promptText = commands.DefaultConceptPrompt
	}
	promptTemplate, err := commands.ParsePromptTemplate("concept-template", promptText)
	if err != nil {
		return fmt.Errorf("failed to parse concept prompt template: %w", err)
	}

	out := cor.NewBaseChain(w.GetName())

	// Step 1: Render the prompt (and attach the reference image if any).
	out.AddCommand(commands.NewConceptPromptBuilder("build-concept-prompt", promptTemplate))

	// Step 2: Single call to the concept model with the response schema.
	out.AddCommand(commands.NewConceptGenerator("generate-concepts", w.genaiModel))

	// Step 3: Strict decode of the JSON payload.
	out.AddCommand(commands.NewConceptJsonToStruct("convert-concepts"))

	// Step 4: Ids, title and initial image state.
	out.AddCommand(commands.NewConceptAssembly("assemble-concepts"))

	w.chain = out
	return nil
}

// NewConceptGenerationWorkflow creates the workflow.
//
// Inputs:
//   - config: The application configuration; supplies the prompt template override.
//   - model: The rate-limited concept model.
//
// Outputs:
//   - *ConceptGenerationWorkflow: The workflow.
//   - error: The prompt template failed to parse, or the model is missing.
func NewConceptGenerationWorkflow(config *cloud.Config, model *cloud.QuotaAwareGenerativeAIModel) (*ConceptGenerationWorkflow, error) {
	if model == nil {
		return nil, fmt.Errorf("concept model %q is not configured", config.Application.ConceptModel)
	}
	out := &ConceptGenerationWorkflow{
		BaseCommand: *cor.NewBaseCommand("concept-generation-pipeline"),
		config:      config,
		genaiModel:  model,
	}
	if err := out.initializeChain(); err != nil {
		return nil, err
	}
	return out, nil
}
