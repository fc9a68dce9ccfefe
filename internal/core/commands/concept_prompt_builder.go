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

// Package commands provides the concrete Commands of the generation pipelines.
// This file defines the command that turns a ConceptRequest into the prompt
// contents for the concept model.
//
// Logic Flow:
//  1. It reads the `*model.ConceptRequest` from the context.
//  2. It renders the prompt template with the video info, the branding clause
//     (brand kit context or the "no specific brand kit" clause) and the fixed
//     list of concept intents.
//  3. If the request carries a reference image it is attached as an inline part.
//  4. It places the `[]*genai.Content` on the output key and the prompt text
//     under `ConceptPromptParam`.
package commands

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"google.golang.org/genai"
)

// DefaultConceptPrompt is the built-in concept prompt template.
const DefaultConceptPrompt = `Act as a world-class YouTube Thumbnail Strategist and Designer.

Task: Generate {{.COUNT}} distinct thumbnail concepts for a video.

Video Info:
- Title: "{{.TITLE}}"
- Niche: "{{.NICHE}}"
- Desired Mood: "{{.MOOD}}"
- User Colors/Prefs: "{{.COLORS}}"

{{.BRANDING}}
{{- if .HAS_IMAGE}}

A reference image from the video is attached. Keep its subject recognizable.
{{- end}}

Design Principles (Mobile First):
- Text must be HUGE and readable (max 5 words).
- High contrast colors.
- Clear subject focus (Face or Object).
- Emotional hook (Curiosity, Shock, Joy, Fear).

Output requirements:
{{- range $i, $intent := .INTENTS}}
{{inc $i}}. {{$intent}}
{{- end}}

Each concept needs a color palette of exactly 3 hex color codes and a predicted CTR score between 80 and 99.
Return ONLY valid JSON matching the schema provided.`

// templateFuncs are the helpers available to prompt templates.
var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// ParsePromptTemplate parses a prompt template with the shared helpers.
func ParsePromptTemplate(name string, text string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).Parse(text)
}

// ConceptPromptBuilder renders the concept prompt.
type ConceptPromptBuilder struct {
	cor.BaseCommand
	template *template.Template
}

// NewConceptPromptBuilder creates the command.
//
// Inputs:
//   - name: The command name.
//   - template: The parsed prompt template.
//
// Outputs:
//   - *ConceptPromptBuilder: The command.
func NewConceptPromptBuilder(name string, template *template.Template) *ConceptPromptBuilder {
	return &ConceptPromptBuilder{BaseCommand: *cor.NewBaseCommand(name), template: template}
}

// GenerateParams creates the template vocabulary for a request.
func (c *ConceptPromptBuilder) GenerateParams(req *model.ConceptRequest) map[string]interface{} {
	params := make(map[string]interface{})
	params["COUNT"] = model.BatchSize
	params["TITLE"] = req.Input.VideoTitle
	params["NICHE"] = req.Input.Niche
	params["MOOD"] = req.Input.Mood
	params["COLORS"] = req.Input.Colors
	params["BRANDING"] = model.BrandingContext(req.BrandKit)
	params["INTENTS"] = model.ConceptIntents
	params["HAS_IMAGE"] = req.Input.Image != nil
	return params
}

// Render produces the prompt text for a request.
func (c *ConceptPromptBuilder) Render(req *model.ConceptRequest) (string, error) {
	var buffer bytes.Buffer
	if err := c.template.Execute(&buffer, c.GenerateParams(req)); err != nil {
		return "", fmt.Errorf("failed to execute concept prompt template: %w", err)
	}
	return buffer.String(), nil
}

func (c *ConceptPromptBuilder) Execute(context cor.Context) {
	req, ok := context.Get(c.GetInputParam()).(*model.ConceptRequest)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not a concept request", c.GetName()))
		return
	}

	prompt, err := c.Render(req)
	if err != nil {
		c.Fail(context, err)
		return
	}

	parts := []*genai.Part{{Text: prompt}}
	if img := req.Input.Image; img != nil {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	c.Succeed(context)
	context.Add(ConceptPromptParam, prompt)
	context.Add(c.GetOutputParam(), contents)
}
