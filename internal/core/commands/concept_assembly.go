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

// This file defines the command that turns decoded drafts into
// ThumbnailConcepts: fresh ids, the original title, no image, not loading.
package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
)

// NewConceptID returns a collision-resistant concept id of the form
// `concept-<unix millis>-<index>-<8 hex>`.
func NewConceptID(now time.Time, index int) string {
	return fmt.Sprintf("concept-%d-%d-%s", now.UnixMilli(), index, uuid.NewString()[:8])
}

// ConceptAssembly completes the drafts on the input key using the request
// stored under ConceptRequestParam.
type ConceptAssembly struct {
	cor.BaseCommand
	clock func() time.Time
}

func NewConceptAssembly(name string) *ConceptAssembly {
	return &ConceptAssembly{BaseCommand: *cor.NewBaseCommand(name), clock: time.Now}
}

func (c *ConceptAssembly) Execute(context cor.Context) {
	drafts, ok := context.Get(c.GetInputParam()).([]*model.ConceptDraft)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not a list of drafts", c.GetName()))
		return
	}
	req, ok := context.Get(ConceptRequestParam).(*model.ConceptRequest)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: missing concept request", c.GetName()))
		return
	}

	now := c.clock()
	concepts := make([]*model.ThumbnailConcept, 0, len(drafts))
	for i, draft := range drafts {
		concepts = append(concepts, model.NewThumbnailConcept(NewConceptID(now, i), req.Input.VideoTitle, draft))
	}

	c.Succeed(context)
	context.Add(ConceptsParam, concepts)
	context.Add(c.GetOutputParam(), concepts)
}
