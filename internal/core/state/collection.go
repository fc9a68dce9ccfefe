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

// Package state holds the in-memory concept collection of the current project.
//
// The collection is an ordered map keyed by concept id. Records are treated as
// values: every mutation stores a fresh copy, so snapshots handed out earlier
// and sibling records never change underneath their readers.
package state

import (
	"errors"
	"sync"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"golang.org/x/sync/semaphore"
)

var (
	ErrConceptNotFound = errors.New("concept not found")
	ErrImageInFlight   = errors.New("an image is already being generated")
	ErrBatchInFlight   = errors.New("a concept batch is already being generated")
)

// Collection is safe for concurrent use.
type Collection struct {
	mu       sync.RWMutex
	order    []string
	concepts map[string]*model.ThumbnailConcept
	batch    *semaphore.Weighted
	image    *semaphore.Weighted
}

func NewCollection() *Collection {
	return &Collection{
		concepts: make(map[string]*model.ThumbnailConcept),
		batch:    semaphore.NewWeighted(1),
		image:    semaphore.NewWeighted(1),
	}
}

// BeginBatch claims the batch slot. Only one concept batch may be in flight.
func (c *Collection) BeginBatch() error {
	if !c.batch.TryAcquire(1) {
		return ErrBatchInFlight
	}
	return nil
}

// EndBatch releases the slot claimed by BeginBatch.
func (c *Collection) EndBatch() {
	c.batch.Release(1)
}

// Replace swaps the whole collection for batch in one step.
func (c *Collection) Replace(batch []*model.ThumbnailConcept) {
	order := make([]string, 0, len(batch))
	concepts := make(map[string]*model.ThumbnailConcept, len(batch))
	for _, concept := range batch {
		if concept == nil {
			continue
		}
		if _, dup := concepts[concept.ID]; !dup {
			order = append(order, concept.ID)
		}
		concepts[concept.ID] = concept.Clone()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = order
	c.concepts = concepts
}

// Clear discards every concept.
func (c *Collection) Clear() {
	c.Replace(nil)
}

// BeginImage claims the image slot and marks the concept as loading. The
// slot is held until EndImage, even when a Replace or Clear discards the
// concept in the meantime.
//
// Inputs:
//   - id: The concept id.
//
// Outputs:
//   - *model.ThumbnailConcept: A copy of the concept as it was before marking.
//   - error: ErrImageInFlight while another image call holds the slot,
//     ErrConceptNotFound when id is unknown.
func (c *Collection) BeginImage(id string) (*model.ThumbnailConcept, error) {
	if !c.image.TryAcquire(1) {
		return nil, ErrImageInFlight
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.concepts[id]
	if !ok {
		c.image.Release(1)
		return nil, ErrConceptNotFound
	}
	next := current.Clone()
	next.IsLoadingImage = true
	c.concepts[id] = next
	return current.Clone(), nil
}

// EndImage releases the slot claimed by a successful BeginImage.
func (c *Collection) EndImage() {
	c.image.Release(1)
}

// CompleteImage stores url on the concept and clears its loading flag. It
// returns false when the concept no longer exists, in which case nothing changes.
func (c *Collection) CompleteImage(id string, url string) bool {
	return c.update(id, func(next *model.ThumbnailConcept) {
		next.GeneratedImageURL = url
		next.IsLoadingImage = false
	})
}

// FailImage clears the loading flag and keeps any earlier image. It returns
// false when the concept no longer exists.
func (c *Collection) FailImage(id string) bool {
	return c.update(id, func(next *model.ThumbnailConcept) {
		next.IsLoadingImage = false
	})
}

func (c *Collection) update(id string, mutate func(next *model.ThumbnailConcept)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.concepts[id]
	if !ok {
		return false
	}
	next := current.Clone()
	mutate(next)
	c.concepts[id] = next
	return true
}

// Snapshot returns copies of the concepts in display order.
func (c *Collection) Snapshot() []*model.ThumbnailConcept {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.ThumbnailConcept, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.concepts[id].Clone())
	}
	return out
}

// Get returns a copy of the concept with the given id.
func (c *Collection) Get(id string) (*model.ThumbnailConcept, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	concept, ok := c.concepts[id]
	if !ok {
		return nil, false
	}
	return concept.Clone(), true
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
