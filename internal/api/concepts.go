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

package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/services"
)

// ConceptRequestBody is the JSON form submission. ImageData is an optional
// base64 payload, with or without a `data:<mime>;base64,` prefix. The binding
// constraints mirror model.UserInput.Validate, which stays the final check.
type ConceptRequestBody struct {
	VideoTitle string `json:"videoTitle" binding:"required,max=100"`
	Niche      string `json:"niche" binding:"required,oneof=Gaming Vlog Tech/Education Finance 'Make Money Online' Beauty/Lifestyle Reaction Documentary"`
	Mood       string `json:"mood" binding:"required,oneof=Excited/Hype Serious/Warning Happy/Positive Mysterious Sad/Emotional Professional"`
	Colors     string `json:"colors"`
	ImageData  string `json:"imageData,omitempty"`
}

// ToUserInput decodes the optional attachment.
func (b *ConceptRequestBody) ToUserInput() (model.UserInput, error) {
	out := model.UserInput{
		VideoTitle: b.VideoTitle,
		Niche:      b.Niche,
		Mood:       b.Mood,
		Colors:     b.Colors,
	}
	if len(b.ImageData) == 0 {
		return out, nil
	}
	payload := b.ImageData
	if i := strings.Index(payload, ";base64,"); strings.HasPrefix(payload, "data:") && i >= 0 {
		payload = payload[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return out, &model.ValidationError{Field: "imageData", Message: "is not valid base64"}
	}
	attachment, err := model.NewAttachment(data)
	if err != nil {
		return out, err
	}
	out.Image = attachment
	return out, nil
}

// ImageResponseBody is returned by the image route. Concept is nil when the
// concept was discarded while its image was being generated.
type ImageResponseBody struct {
	Concept *model.ThumbnailConcept `json:"concept"`
}

// detached keeps the request's trace values but not its cancellation. A client
// that goes away does not abort generation; the result still lands in the
// collection and only the response is lost.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// ConceptRouter registers the collection routes.
func ConceptRouter(r *gin.RouterGroup, studio *services.Studio) {
	concepts := r.Group("/concepts")
	{
		concepts.POST("", func(c *gin.Context) {
			body := &ConceptRequestBody{}
			if err := c.ShouldBindJSON(body); err != nil {
				writeBindError(c, err)
				return
			}
			input, err := body.ToUserInput()
			if err != nil {
				writeError(c, err)
				return
			}
			out, err := studio.GenerateConcepts(detached(c), input)
			if err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		concepts.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, studio.Collection().Snapshot())
		})

		concepts.DELETE("", func(c *gin.Context) {
			studio.NewProject()
			c.Status(http.StatusNoContent)
		})

		concepts.GET("/:id", func(c *gin.Context) {
			concept, ok := studio.Collection().Get(c.Param("id"))
			if !ok {
				c.JSON(http.StatusNotFound, errorBody{Error: "concept not found"})
				return
			}
			c.JSON(http.StatusOK, concept)
		})

		concepts.POST("/:id/image", func(c *gin.Context) {
			concept, err := studio.GenerateImage(detached(c), c.Param("id"))
			if err != nil {
				if isConflictOrMissing(err) {
					writeError(c, err)
					return
				}
				c.JSON(http.StatusBadGateway, errorBody{Error: services.ImageErrorMessage})
				return
			}
			c.JSON(http.StatusOK, ImageResponseBody{Concept: concept})
		})
	}
}
