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

// This file defines the command that archives generated images to GCS.
// Archiving is best effort: failures are logged and the image is passed
// through unchanged.
package commands

import (
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/h2non/filetype"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
)

// ImageArchive writes the `*model.GeneratedImage` on the input key to
// `<prefix><concept id>.<ext>` in the configured bucket.
type ImageArchive struct {
	cor.BaseCommand
	client *storage.Client
	bucket string
	prefix string
}

func NewImageArchive(name string, client *storage.Client, bucket string, prefix string) *ImageArchive {
	return &ImageArchive{BaseCommand: *cor.NewBaseCommand(name), client: client, bucket: bucket, prefix: prefix}
}

// ObjectFor returns the archive location of an image.
func (c *ImageArchive) ObjectFor(image *model.GeneratedImage) cloud.GCSObject {
	ext := "png"
	if kind, err := filetype.Match(image.Data); err == nil && kind != filetype.Unknown {
		ext = kind.Extension
	}
	id := image.ConceptID
	if len(id) == 0 {
		id = "unknown"
	}
	return cloud.GCSObject{Bucket: c.bucket, Name: fmt.Sprintf("%s%s.%s", c.prefix, id, ext), MIMEType: image.MIMEType}
}

func (c *ImageArchive) Execute(context cor.Context) {
	image, ok := context.Get(c.GetInputParam()).(*model.GeneratedImage)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not a generated image", c.GetName()))
		return
	}
	obj := c.ObjectFor(image)
	if err := cloud.WriteObject(context.GetContext(), c.client, obj, image.Data); err != nil {
		slog.Warn("failed to archive generated image", "object", obj.String(), "error", err)
		if c.ErrorCounter != nil {
			c.ErrorCounter.Add(context.GetContext(), 1)
		}
	} else {
		slog.Info("archived generated image", "object", obj.String())
		c.Succeed(context)
	}
	context.Add(c.GetOutputParam(), image)
}
