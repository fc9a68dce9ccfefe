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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/services"
)

// NoticeRouter registers the notice routes.
func NoticeRouter(r *gin.RouterGroup, studio *services.Studio) {
	notices := r.Group("/notices")
	{
		notices.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, studio.Notices())
		})
		notices.DELETE("/banner", func(c *gin.Context) {
			studio.DismissBanner()
			c.Status(http.StatusNoContent)
		})
		notices.DELETE("/toasts/:id", func(c *gin.Context) {
			if !studio.DismissToast(c.Param("id")) {
				c.JSON(http.StatusNotFound, errorBody{Error: "notice not found"})
				return
			}
			c.Status(http.StatusNoContent)
		})
	}
}

// BrandKitBody is the settings form submission. The colors bound matches
// model.MaxBrandColors.
type BrandKitBody struct {
	Name             string   `json:"name" binding:"required"`
	Colors           []string `json:"colors" binding:"max=12,dive,required,hexcolor"`
	FontPairing      string   `json:"fontPairing"`
	StylePreferences string   `json:"stylePreferences"`
	LogoURL          string   `json:"logoUrl,omitempty" binding:"omitempty,url"`
}

func (b *BrandKitBody) ToBrandKit() *model.BrandKit {
	return &model.BrandKit{
		Name:             b.Name,
		Colors:           b.Colors,
		FontPairing:      b.FontPairing,
		StylePreferences: b.StylePreferences,
		LogoURL:          b.LogoURL,
	}
}

// BrandKitRouter registers the brand kit routes.
func BrandKitRouter(r *gin.RouterGroup, studio *services.Studio) {
	kits := r.Group("/brand-kit")
	{
		kits.GET("", func(c *gin.Context) {
			kit := studio.BrandKit()
			if kit == nil {
				c.Status(http.StatusNoContent)
				return
			}
			c.JSON(http.StatusOK, kit)
		})
		kits.GET("/default", func(c *gin.Context) {
			c.JSON(http.StatusOK, model.DefaultBrandKit())
		})
		kits.PUT("", func(c *gin.Context) {
			body := &BrandKitBody{}
			if err := c.ShouldBindJSON(body); err != nil {
				writeBindError(c, err)
				return
			}
			if err := studio.SaveBrandKit(c.Request.Context(), body.ToBrandKit()); err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusOK, studio.BrandKit())
		})
	}
}

// Options is the form catalog.
type Options struct {
	Niches         []string `json:"niches"`
	Moods          []string `json:"moods"`
	MaxTitleLength int      `json:"maxTitleLength"`
	MaxBrandColors int      `json:"maxBrandColors"`
}

// OptionsRouter registers the catalog route.
func OptionsRouter(r *gin.RouterGroup) {
	r.GET("/options", func(c *gin.Context) {
		c.JSON(http.StatusOK, Options{
			Niches:         model.Niches,
			Moods:          model.Moods,
			MaxTitleLength: model.MaxVideoTitleLength,
			MaxBrandColors: model.MaxBrandColors,
		})
	})
}
