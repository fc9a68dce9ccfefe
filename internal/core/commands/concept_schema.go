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

package commands

import "google.golang.org/genai"

// ConceptResponseSchema is the declared output shape of the concept model: an
// array of objects carrying the seven model-produced concept fields.
func ConceptResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"conceptName":       {Type: genai.TypeString, Description: "Short name of the concept"},
				"textOverlay":       {Type: genai.TypeString, Description: "Big bold text for the thumbnail (max 5 words)"},
				"imagePrompt":       {Type: genai.TypeString, Description: "Detailed prompt for an image generator"},
				"colorPalette":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "3 hex color codes"},
				"compositionNote":   {Type: genai.TypeString, Description: "Where the text goes versus the subject"},
				"predictedCTRScore": {Type: genai.TypeNumber, Description: "Estimated quality score between 80 and 99"},
				"tags":              {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{
				"conceptName", "textOverlay", "imagePrompt", "colorPalette",
				"compositionNote", "predictedCTRScore", "tags",
			},
		},
	}
}
