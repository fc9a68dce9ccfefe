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

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
)

// MaxVideoTitleLength is the upper bound for a video title, in characters.
const MaxVideoTitleLength = 100

// Niches is the fixed catalog of video categories offered by the form.
var Niches = []string{
	"Gaming",
	"Vlog",
	"Tech/Education",
	"Finance",
	"Make Money Online",
	"Beauty/Lifestyle",
	"Reaction",
	"Documentary",
}

// Moods is the fixed catalog of desired thumbnail moods.
var Moods = []string{
	"Excited/Hype",
	"Serious/Warning",
	"Happy/Positive",
	"Mysterious",
	"Sad/Emotional",
	"Professional",
}

// ErrUnsupportedAttachment is returned when an uploaded file is not an image.
var ErrUnsupportedAttachment = errors.New("attachment is not a supported image")

// ValidationError reports the first invalid field of a submitted record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Attachment is an optional reference image uploaded with the form.
type Attachment struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// NewAttachment sniffs the MIME type of the raw bytes and rejects anything
// that is not an image.
func NewAttachment(data []byte) (*Attachment, error) {
	if !filetype.IsImage(data) {
		return nil, ErrUnsupportedAttachment
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("failed to detect attachment type: %w", err)
	}
	return &Attachment{MIMEType: kind.MIME.Value, Data: data}, nil
}

// UserInput is the video metadata submitted by the user. It is passed by value
// to the generation call and never mutated afterwards.
type UserInput struct {
	VideoTitle string      `json:"videoTitle"`
	Niche      string      `json:"niche"`
	Mood       string      `json:"mood"`
	Colors     string      `json:"colors"`
	Image      *Attachment `json:"-"`
}

// Validate checks the title length and that niche and mood belong to their
// catalogs.
func (u UserInput) Validate() error {
	title := strings.TrimSpace(u.VideoTitle)
	if len(title) == 0 {
		return &ValidationError{Field: "videoTitle", Message: "is required"}
	}
	if utf8.RuneCountInString(title) > MaxVideoTitleLength {
		return &ValidationError{Field: "videoTitle", Message: fmt.Sprintf("must be at most %d characters", MaxVideoTitleLength)}
	}
	if !slices.Contains(Niches, u.Niche) {
		return &ValidationError{Field: "niche", Message: fmt.Sprintf("unknown niche %q", u.Niche)}
	}
	if !slices.Contains(Moods, u.Mood) {
		return &ValidationError{Field: "mood", Message: fmt.Sprintf("unknown mood %q", u.Mood)}
	}
	return nil
}
