// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the phoenix to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items), so they
// are validated again by the relevant end-component, such as a UseCase
// instance.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Database  Database  // database connection information
	Gin       Gin       // web server settings
	Redis     Redis     // optional lots geo index
	Telemetry Telemetry // metrics exporters
	Usecases  Usecases  // use cases related settings

	// redis is created lazily by the Builder methods and is closed by
	// the Close method.
	redis *redis.Client
}

// Load reads the configuration file at the given path, unmarshals it,
// and then validates and normalizes the loaded settings. Unknown items
// are rejected, so typos in the file may not go unnoticed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is like Load, but takes the file contents instead of its path.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	c.Gin.normalize()
	if err := c.Redis.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating redis settings: %w", err)
	}
	if err := c.Telemetry.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating telemetry settings: %w", err)
	}
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating use cases settings: %w", err)
	}
	return nil
}

// LogValue implements slog.LogValuer, so the loaded settings may be
// logged without the secret items (e.g., the redis password).
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Group("database",
			slog.String("host", c.Database.Host),
			slog.Int("port", c.Database.Port),
			slog.String("name", c.Database.Name),
			slog.String("auth-method", c.Database.AuthMethod),
		),
		slog.Group("gin",
			slog.Bool("logger", *c.Gin.Logger),
			slog.Bool("recovery", *c.Gin.Recovery),
			slog.String("address", c.Gin.Address),
		),
		slog.String("redis", c.Redis.Address),
		slog.Group("telemetry",
			slog.String("otlp-endpoint", c.Telemetry.OTLPEndpoint),
			slog.Any("interval", c.Telemetry.Interval),
			slog.Bool("prometheus", *c.Telemetry.Prometheus),
		),
		slog.Group("matching",
			slog.Int("workers", *c.Usecases.Matching.Workers),
			slog.Bool(
				"enforce-holdings", *c.Usecases.Matching.EnforceHoldings,
			),
			slog.Float64(
				"max-radius-km", *c.Usecases.Matching.MaxRadiusKm,
			),
		),
	)
}

// Close releases the resources which are created by the Builder
// methods, such as the redis client.
func (c *Config) Close() error {
	if c.redis == nil {
		return nil
	}
	err := c.redis.Close()
	c.redis = nil
	return err
}
