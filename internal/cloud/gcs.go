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

// Package cloud contains data structures and utilities for interacting with Google Cloud services.
// This file defines a small GCS object reference and the read/write helpers
// shared by the preference store and the generated image archive.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// ErrObjectNotFound is returned by ReadObject when the object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// GCSObject is a simplified reference to a Google Cloud Storage object.
type GCSObject struct {
	Bucket   string // The name of the GCS bucket.
	Name     string // The name of the object.
	MIMEType string // The MIME type of the object (e.g., "image/png").
}

// String returns the gs:// URI of the object.
func (o GCSObject) String() string {
	return fmt.Sprintf("gs://%s/%s", o.Bucket, o.Name)
}

// WriteObject uploads the bytes, replacing any existing object.
func WriteObject(ctx context.Context, client *storage.Client, obj GCSObject, data []byte) error {
	wc := client.Bucket(obj.Bucket).Object(obj.Name).NewWriter(ctx)
	wc.ContentType = obj.MIMEType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write %s: %w", obj, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", obj, err)
	}
	return nil
}

// ReadObject downloads the whole object. A missing object yields ErrObjectNotFound.
func ReadObject(ctx context.Context, client *storage.Client, obj GCSObject) ([]byte, error) {
	rc, err := client.Bucket(obj.Bucket).Object(obj.Name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", obj, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", obj, err)
	}
	return data, nil
}
