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

package model

// ConceptRequest is the input of the concept generation pipeline: the
// submitted form plus the brand kit active at submission time, if any.
type ConceptRequest struct {
	Input    UserInput
	BrandKit *BrandKit
}

// GeneratedImage is the output of the image generation pipeline.
type GeneratedImage struct {
	ConceptID string
	MIMEType  string
	Data      []byte
	DataURI   string // data:<mime>;base64,<payload>
}
