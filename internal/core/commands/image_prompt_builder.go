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

// This file defines the command that renders the image prompt for a concept.
package commands

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"google.golang.org/genai"
)

// DefaultImagePrompt is the built-in image prompt template. The scene
// description and the composition note are embedded verbatim.
const DefaultImagePrompt = `Create a high quality YouTube thumbnail image (16:9 aspect ratio).
Style: Photorealistic, 4k, sharp focus, high contrast.
Scene Description: {{.IMAGE_PROMPT}}
Leave negative space for text overlay as described: "{{.COMPOSITION_NOTE}}".
Do NOT add text to the image itself. The text will be added later.
Make it pop on a small screen.`

// ImagePromptBuilder renders the image prompt from the `*model.ThumbnailConcept`
// on the input key.
type ImagePromptBuilder struct {
	cor.BaseCommand
	template *template.Template
}

func NewImagePromptBuilder(name string, template *template.Template) *ImagePromptBuilder {
	return &ImagePromptBuilder{BaseCommand: *cor.NewBaseCommand(name), template: template}
}

// Render produces the prompt text for a concept.
func (c *ImagePromptBuilder) Render(concept *model.ThumbnailConcept) (string, error) {
	params := map[string]interface{}{
		"IMAGE_PROMPT":     concept.ImagePrompt,
		"COMPOSITION_NOTE": concept.CompositionNote,
		"CONCEPT_NAME":     concept.ConceptName,
	}
	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, params); err != nil {
		return "", fmt.Errorf("failed to execute image prompt template: %w", err)
	}
	return buffer.String(), nil
}

func (c *ImagePromptBuilder) Execute(context cor.Context) {
	concept, ok := context.Get(c.GetInputParam()).(*model.ThumbnailConcept)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not a concept", c.GetName()))
		return
	}
	prompt, err := c.Render(concept)
	if err != nil {
		c.Fail(context, err)
		return
	}
	c.Succeed(context)
	context.Add(ImagePromptParam, prompt)
	context.Add(c.GetOutputParam(), []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}})
}
