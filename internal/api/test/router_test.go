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

// Package api_test exercises the HTTP routes with httptest against a Studio
// backed by fake Gemini generators.
package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/api"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/services"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/state"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/workflow"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/preferences"
	test "github.com/jaycherian/gcp-go-thumbnail-studio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fixture struct {
	router      *gin.Engine
	conceptFake *test.FakeGenerator
	imageFake   *test.FakeGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config := test.GetConfig()

	f := &fixture{
		conceptFake: &test.FakeGenerator{Response: test.TextResponse(test.ConceptsJSON(test.SampleConcepts(4)))},
		imageFake:   &test.FakeGenerator{Response: test.ImageResponse("image/png", []byte{1, 2, 3})},
	}
	conceptWorkflow, err := workflow.NewConceptGenerationWorkflow(config, test.NewFakeModel("gemini-test", f.conceptFake))
	require.NoError(t, err)
	imageWorkflow, err := workflow.NewImageGenerationWorkflow(config, test.NewFakeModel("gemini-image-test", f.imageFake), nil)
	require.NoError(t, err)

	kits := preferences.NewManager(preferences.NewFileStore(t.TempDir(), preferences.DefaultKey))
	require.NoError(t, kits.Init(context.Background()))

	studio := services.NewStudio(
		&services.ConceptService{Workflow: conceptWorkflow},
		&services.ImageService{Workflow: imageWorkflow},
		kits,
		state.NewCollection())
	f.router = api.NewRouter("thumbnail-studio-test", studio)
	return f
}

func (f *fixture) do(t *testing.T, method string, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// doAbandoned serves a request whose client has already gone away.
func (f *fixture) doAbandoned(t *testing.T, method string, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(method, path, bytes.NewReader(data)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// honorCancel fails the call when its context is done, like the real client.
func honorCancel(response *genai.GenerateContentResponse) func(ctx context.Context, call test.GenerateCall) (*genai.GenerateContentResponse, error) {
	return func(ctx context.Context, call test.GenerateCall) (*genai.GenerateContentResponse, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return response, nil
	}
}

func survived() map[string]string {
	return map[string]string{"videoTitle": "I Survived 100 Days", "niche": "Gaming", "mood": "Excited/Hype"}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPostConcepts(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/v1/concepts", survived())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	concepts := decode[[]model.ThumbnailConcept](t, w)
	require.Len(t, concepts, 4)
	assert.Equal(t, "I Survived 100 Days", concepts[0].Title)

	w = f.do(t, http.MethodGet, "/api/v1/concepts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.ThumbnailConcept](t, w), 4)

	w = f.do(t, http.MethodGet, "/api/v1/concepts/"+concepts[1].ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPostConceptsWithImage(t *testing.T) {
	f := newFixture(t)
	body := survived()
	body["imageData"] = "data:image/png;base64," + base64.StdEncoding.EncodeToString(test.PNGBytes)
	w := f.do(t, http.MethodPost, "/api/v1/concepts", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	parts := f.conceptFake.Calls()[0].Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
}

func TestPostConceptsValidation(t *testing.T) {
	f := newFixture(t)
	body := survived()
	body["niche"] = "Cooking"
	w := f.do(t, http.MethodPost, "/api/v1/concepts", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "niche", decode[map[string]string](t, w)["field"])

	body = survived()
	body["imageData"] = base64.StdEncoding.EncodeToString([]byte("not an image"))
	w = f.do(t, http.MethodPost, "/api/v1/concepts", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.conceptFake.Calls())
}

func TestPostConceptsGenerationFailure(t *testing.T) {
	f := newFixture(t)
	f.conceptFake.Response = test.TextResponse(`[{"conceptName": "only one"}]`)
	w := f.do(t, http.MethodPost, "/api/v1/concepts", survived())
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, services.GenerationErrorMessage, decode[map[string]string](t, w)["error"])

	w = f.do(t, http.MethodGet, "/api/v1/notices", nil)
	assert.Equal(t, services.GenerationErrorMessage, decode[services.Notices](t, w).Banner)

	w = f.do(t, http.MethodDelete, "/api/v1/notices/banner", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/notices", nil)
	assert.Empty(t, decode[services.Notices](t, w).Banner)
}

func TestPostImage(t *testing.T) {
	f := newFixture(t)
	concepts := decode[[]model.ThumbnailConcept](t, f.do(t, http.MethodPost, "/api/v1/concepts", survived()))

	w := f.do(t, http.MethodPost, "/api/v1/concepts/"+concepts[0].ID+"/image", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[api.ImageResponseBody](t, w)
	assert.Equal(t, "data:image/png;base64,AQID", out.Concept.GeneratedImageURL)

	w = f.do(t, http.MethodPost, "/api/v1/concepts/missing/image", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostImageFailure(t *testing.T) {
	f := newFixture(t)
	concepts := decode[[]model.ThumbnailConcept](t, f.do(t, http.MethodPost, "/api/v1/concepts", survived()))
	f.imageFake.Response = test.TextResponse("no image")

	w := f.do(t, http.MethodPost, "/api/v1/concepts/"+concepts[0].ID+"/image", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, services.ImageErrorMessage, decode[map[string]string](t, w)["error"])

	notices := decode[services.Notices](t, f.do(t, http.MethodGet, "/api/v1/notices", nil))
	require.Len(t, notices.Toasts, 1)
	w = f.do(t, http.MethodDelete, "/api/v1/notices/toasts/"+notices.Toasts[0].ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGenerationSurvivesClientDisconnect(t *testing.T) {
	f := newFixture(t)
	f.conceptFake.Handler = honorCancel(test.TextResponse(test.ConceptsJSON(test.SampleConcepts(4))))
	f.imageFake.Handler = honorCancel(test.ImageResponse("image/png", []byte{1, 2, 3}))

	w := f.doAbandoned(t, http.MethodPost, "/api/v1/concepts", survived())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	concepts := decode[[]model.ThumbnailConcept](t, f.do(t, http.MethodGet, "/api/v1/concepts", nil))
	require.Len(t, concepts, 4)
	assert.Empty(t, decode[services.Notices](t, f.do(t, http.MethodGet, "/api/v1/notices", nil)).Banner)

	w = f.doAbandoned(t, http.MethodPost, "/api/v1/concepts/"+concepts[1].ID+"/image", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := decode[model.ThumbnailConcept](t, f.do(t, http.MethodGet, "/api/v1/concepts/"+concepts[1].ID, nil))
	assert.Equal(t, "data:image/png;base64,AQID", stored.GeneratedImageURL)
}

func TestDeleteConcepts(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/v1/concepts", survived())
	w := f.do(t, http.MethodDelete, "/api/v1/concepts", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, decode[[]model.ThumbnailConcept](t, f.do(t, http.MethodGet, "/api/v1/concepts", nil)))
}

func TestBrandKitRoutes(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/v1/brand-kit", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/brand-kit/default", nil)
	assert.Equal(t, *model.DefaultBrandKit(), decode[model.BrandKit](t, w))

	w = f.do(t, http.MethodPut, "/api/v1/brand-kit", model.BrandKit{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, "/api/v1/brand-kit", model.DefaultBrandKit())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/brand-kit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, *model.DefaultBrandKit(), decode[model.BrandKit](t, w))

	f.do(t, http.MethodPost, "/api/v1/concepts", survived())
	assert.Contains(t, f.conceptFake.Calls()[0].PromptText(), "Apply Brand Kit")
}

func TestPostConceptsBindingConstraints(t *testing.T) {
	f := newFixture(t)

	body := survived()
	body["videoTitle"] = strings.Repeat("x", model.MaxVideoTitleLength+1)
	w := f.do(t, http.MethodPost, "/api/v1/concepts", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "videoTitle", decode[map[string]string](t, w)["field"])

	body = survived()
	delete(body, "mood")
	w = f.do(t, http.MethodPost, "/api/v1/concepts", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "mood", decode[map[string]string](t, w)["field"])

	body = survived()
	body["niche"] = "Make Money Online"
	w = f.do(t, http.MethodPost, "/api/v1/concepts", body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, f.conceptFake.Calls(), 1)
}

func TestPutBrandKitBindingConstraints(t *testing.T) {
	f := newFixture(t)

	kit := model.DefaultBrandKit()
	kit.Colors = make([]string, model.MaxBrandColors+1)
	for i := range kit.Colors {
		kit.Colors[i] = "#FFFFFF"
	}
	w := f.do(t, http.MethodPut, "/api/v1/brand-kit", kit)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "colors", decode[map[string]string](t, w)["field"])

	kit.Colors = kit.Colors[:model.MaxBrandColors]
	w = f.do(t, http.MethodPut, "/api/v1/brand-kit", kit)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	kit.Colors = []string{"red"}
	w = f.do(t, http.MethodPut, "/api/v1/brand-kit", kit)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// oneofValues splits a oneof parameter list, honoring single quotes.
func oneofValues(t *testing.T, field string) []string {
	t.Helper()
	sf, ok := reflect.TypeOf(api.ConceptRequestBody{}).FieldByName(field)
	require.True(t, ok)
	tag := sf.Tag.Get("binding")
	i := strings.Index(tag, "oneof=")
	require.GreaterOrEqual(t, i, 0)
	out := make([]string, 0)
	for _, v := range regexp.MustCompile(`'[^']*'|\S+`).FindAllString(tag[i+len("oneof="):], -1) {
		out = append(out, strings.Trim(v, "'"))
	}
	return out
}

func TestBindingCatalogsMatchModel(t *testing.T) {
	assert.Equal(t, model.Niches, oneofValues(t, "Niche"))
	assert.Equal(t, model.Moods, oneofValues(t, "Mood"))
}

func TestOptions(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/v1/options", nil)
	require.Equal(t, http.StatusOK, w.Code)
	options := decode[api.Options](t, w)
	assert.Equal(t, model.Niches, options.Niches)
	assert.Equal(t, model.Moods, options.Moods)
	assert.Equal(t, model.MaxVideoTitleLength, options.MaxTitleLength)
}
