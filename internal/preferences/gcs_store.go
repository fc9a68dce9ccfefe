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

package preferences

import (
	"context"
	"errors"

	"cloud.google.com/go/storage"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
)

// GCSStore keeps the record as the object `<prefix><key>.json`.
type GCSStore struct {
	client *storage.Client
	Bucket string
	Prefix string
	Key    string
}

func NewGCSStore(client *storage.Client, bucket string, prefix string, key string) *GCSStore {
	return &GCSStore{client: client, Bucket: bucket, Prefix: prefix, Key: key}
}

func (s *GCSStore) Object() cloud.GCSObject {
	return cloud.GCSObject{Bucket: s.Bucket, Name: s.Prefix + s.Key + ".json", MIMEType: "application/json"}
}

func (s *GCSStore) Load(ctx context.Context) (*model.BrandKit, error) {
	data, err := cloud.ReadObject(ctx, s.client, s.Object())
	if errors.Is(err, cloud.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(s.Key, data)
}

func (s *GCSStore) Save(ctx context.Context, kit *model.BrandKit) error {
	data, err := encode(kit)
	if err != nil {
		return err
	}
	return cloud.WriteObject(ctx, s.client, s.Object(), data)
}
