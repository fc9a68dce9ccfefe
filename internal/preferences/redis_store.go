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
	"fmt"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/model"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the record as a string value under the key itself.
type RedisStore struct {
	client redis.Cmdable
	Key    string
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, Key: key}
}

func (s *RedisStore) Load(ctx context.Context) (*model.BrandKit, error) {
	data, err := s.client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from redis: %w", s.Key, err)
	}
	return decode(s.Key, data)
}

func (s *RedisStore) Save(ctx context.Context, kit *model.BrandKit) error {
	data, err := encode(kit)
	if err != nil {
		return err
	}
	if err = s.client.Set(ctx, s.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", s.Key, err)
	}
	return nil
}
