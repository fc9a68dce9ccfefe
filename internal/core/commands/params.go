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

// Package commands provides the concrete Commands of the generation
// pipelines: prompt builders, the Gemini calls, the strict response decoder,
// the concept assembler and the optional image archive.
package commands

// Context keys shared between the commands and the workflows that assemble them.
const (
	ConceptRequestParam = "__concept_request__" // *model.ConceptRequest, set by the caller.
	ConceptPromptParam  = "__concept_prompt__"  // string, the rendered concept prompt.
	ConceptsParam       = "__concepts__"        // []*model.ThumbnailConcept, the assembled batch.
	ImagePromptParam    = "__image_prompt__"    // string, the rendered image prompt.
	ImageParam          = "__image__"           // *model.GeneratedImage, the decoded image.
	ImageConceptParam   = "__image_concept__"   // *model.ThumbnailConcept, the concept being rendered.
)
