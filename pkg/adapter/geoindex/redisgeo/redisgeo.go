// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package redisgeo implements the matchinguc.Locator and Indexer
// interfaces using the Redis GEO commands. Lots are indexed by their
// ids in one sorted set, so a GEOSEARCH query can find the lots which
// are in the search radius without scanning all of them.
package redisgeo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the sorted set key when WithKey is not used.
const DefaultKey = "phoenix:lots"

// Locator finds the candidate lots of a search using Redis GEO.
type Locator struct {
	client *redis.Client
	key    string
}

// New instantiates a Locator which uses client. The client is not
// closed by the Locator.
func New(client *redis.Client, opts ...Option) (*Locator, error) {
	l := &Locator{client: client}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if l.key == "" {
		l.key = DefaultKey
	}
	return l, nil
}

// Index replaces the indexed lots with lots in one transaction.
func (l *Locator) Index(ctx context.Context, lots []*model.GeoLot) error {
	locs := make([]*redis.GeoLocation, 0, len(lots))
	for _, lot := range lots {
		locs = append(locs, &redis.GeoLocation{
			Name:      strconv.FormatInt(int64(lot.ID), 10),
			Longitude: lot.Coordinate.Lon,
			Latitude:  lot.Coordinate.Lat,
		})
	}
	pipe := l.client.TxPipeline()
	pipe.Del(ctx, l.key)
	if len(locs) > 0 {
		pipe.GeoAdd(ctx, l.key, locs...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("indexing %d lots: %w", len(locs), err)
	}
	log.Info(
		ctx, "lots indexed in redis",
		slog.String("key", l.key),
		slog.Int("lots", len(locs)),
	)
	return nil
}

// Candidates returns the ids of lots which are not farther than
// radiusKm from c, nearest first.
func (l *Locator) Candidates(
	ctx context.Context, c model.Coordinate, radiusKm float64,
) ([]model.LotID, error) {
	names, err := l.client.GeoSearch(ctx, l.key, &redis.GeoSearchQuery{
		Longitude:  c.Lon,
		Latitude:   c.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("GEOSEARCH: %w", err)
	}
	ids := make([]model.LotID, 0, len(names))
	for _, name := range names {
		id, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing lot id %q: %w", name, err)
		}
		ids = append(ids, model.LotID(id))
	}
	return ids, nil
}
