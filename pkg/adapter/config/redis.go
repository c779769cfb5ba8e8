// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/adapter/geoindex/redisgeo"
	"github.com/redis/go-redis/v9"
)

// Redis contains the settings of the optional Redis server which keeps
// the lots geo index. An empty Address disables the geo index, so all
// lots are scanned for each search.
type Redis struct {
	Address  string // host:port of the Redis server
	DB       int    // logical database number
	Password string `yaml:",omitempty"`

	// Key is the sorted set which keeps the lots locations.
	Key string `yaml:",omitempty"`
}

// ValidateAndNormalize validates the redis settings.
func (r *Redis) ValidateAndNormalize() error {
	if r.DB < 0 {
		return fmt.Errorf("invalid redis db number: %d", r.DB)
	}
	if r.Key == "" {
		r.Key = redisgeo.DefaultKey
	}
	return nil
}

// Enabled returns true if a Redis server address is configured.
func (r Redis) Enabled() bool {
	return r.Address != ""
}

// newClient creates a redis client and pings the server.
func (r Redis) newClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     r.Address,
		Password: r.Password,
		DB:       r.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %q: %w", r.Address, err)
	}
	return client, nil
}
