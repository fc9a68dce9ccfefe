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

package services

import (
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/commands"
)

// GenerationErrorMessage is the user facing text of every concept generation failure.
const GenerationErrorMessage = "Failed to generate concepts. Please check your API key or try again."

// ImageErrorMessage is the user facing text published when an image fails.
const ImageErrorMessage = "Failed to generate image. Please try again."

// ErrNoImageData is returned by ImageService when the model response carries no image.
var ErrNoImageData = commands.ErrNoImageData

// GenerationError is the single failure kind of ConceptService. The message is
// generic; the underlying cause is available through Unwrap.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return GenerationErrorMessage
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
