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

// Package api defines the JSON HTTP API used by the browser UI.
//
// Routes (under /api/v1):
//   - POST   /concepts            Generate a batch from the submitted form.
//   - GET    /concepts            Current collection.
//   - GET    /concepts/:id        One concept.
//   - DELETE /concepts            Start a new project.
//   - POST   /concepts/:id/image  Render an image for one concept.
//   - GET    /notices             Banner and toasts.
//   - DELETE /notices/banner      Dismiss the banner.
//   - DELETE /notices/toasts/:id  Dismiss a toast.
//   - GET    /brand-kit           Active kit, 204 when none.
//   - GET    /brand-kit/default   Starting values for the settings form.
//   - PUT    /brand-kit           Save and activate a kit.
//   - GET    /options             Niche and mood catalogs.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/services"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/state"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter builds the gin engine with tracing, CORS and the API routes.
//
// Inputs:
//   - serviceName: The otelgin server name.
//   - studio: The application orchestrator.
//
// Outputs:
//   - *gin.Engine: The configured router.
func NewRouter(serviceName string, studio *services.Studio) *gin.Engine {
	jsonFieldNames.Do(useJSONFieldNames)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		ConceptRouter(apiV1, studio)
		NoticeRouter(apiV1, studio)
		BrandKitRouter(apiV1, studio)
		OptionsRouter(apiV1)
	}
	return r
}

var jsonFieldNames sync.Once

// useJSONFieldNames makes binding errors report the JSON name of a field.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeError maps domain errors to status codes.
func writeError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var generationErr *services.GenerationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorBody{Error: validationErr.Error(), Field: validationErr.Field})
	case errors.Is(err, model.ErrUnsupportedAttachment):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Field: "imageData"})
	case errors.Is(err, state.ErrConceptNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, state.ErrBatchInFlight), errors.Is(err, state.ErrImageInFlight):
		c.JSON(http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &generationErr):
		c.JSON(http.StatusBadGateway, errorBody{Error: generationErr.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

// writeBindError reports the first failed binding constraint.
func writeBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		c.JSON(http.StatusBadRequest, errorBody{
			Error: fmt.Sprintf("invalid %s: failed %s", fe.Field(), fe.Tag()),
			Field: fe.Field(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
}

// isConflictOrMissing reports errors raised before the image model is called.
func isConflictOrMissing(err error) bool {
	return errors.Is(err, state.ErrConceptNotFound) || errors.Is(err, state.ErrImageInFlight)
}
