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
	"fmt"
	"slices"
	"strings"
)

// MaxBrandColors bounds the number of colors a brand kit may hold.
const MaxBrandColors = 12

// BrandKit is the reusable set of stylistic preferences applied as optional
// context to concept generation. At most one kit is active at a time.
type BrandKit struct {
	Name             string   `json:"name"`
	Colors           []string `json:"colors"`
	FontPairing      string   `json:"fontPairing"`
	StylePreferences string   `json:"stylePreferences"`
	LogoURL          string   `json:"logoUrl,omitempty"`
}

// DefaultBrandKit returns the kit the settings form starts from.
func DefaultBrandKit() *BrandKit {
	return &BrandKit{
		Name:             "My Channel Brand",
		Colors:           []string{"#EF4444", "#FFFFFF", "#000000"},
		FontPairing:      "Sans Serif Bold",
		StylePreferences: "High Contrast, Energetic",
	}
}

// Validate enforces a non-empty name, non-empty colors and the color bound.
func (b *BrandKit) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if len(b.Colors) > MaxBrandColors {
		return &ValidationError{Field: "colors", Message: fmt.Sprintf("at most %d colors are allowed", MaxBrandColors)}
	}
	for i, c := range b.Colors {
		if len(strings.TrimSpace(c)) == 0 {
			return &ValidationError{Field: "colors", Message: fmt.Sprintf("color %d is empty", i)}
		}
	}
	return nil
}

// Clone returns a deep copy of the kit.
func (b *BrandKit) Clone() *BrandKit {
	if b == nil {
		return nil
	}
	out := *b
	out.Colors = slices.Clone(b.Colors)
	return &out
}

// PromptContext renders the kit as the branding clause of the concept prompt.
func (b *BrandKit) PromptContext() string {
	out := fmt.Sprintf("Apply Brand Kit: Colors [%s], Style: %s.", strings.Join(b.Colors, ", "), b.StylePreferences)
	if len(b.FontPairing) > 0 {
		out += fmt.Sprintf(" Fonts: %s.", b.FontPairing)
	}
	return out
}

// NoBrandKitContext is the branding clause used when no kit is active.
const NoBrandKitContext = "No specific brand kit. Use industry best practices for the niche."

// BrandingContext returns the branding clause for an optional kit.
func BrandingContext(kit *BrandKit) string {
	if kit == nil {
		return NoBrandKitContext
	}
	return kit.PromptContext()
}
