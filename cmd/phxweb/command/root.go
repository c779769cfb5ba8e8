// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the phoenix
// car-sharing web service. Commands are organized using the cobra
// library. The root command starts the web server itself while the
// "db" sub-command can be used for the database initialization.
//
//	./phxweb [-c /path/of/main/config.yaml]           # start web server
//	./phxweb db init-dev [-c /path/of/main/config.yaml]
//	./phxweb db init-prod [-c /path/of/main/config.yaml]
//
// A .env file in the working directory (if any) is loaded before the
// flags are processed, so CONFIG_FILE may be kept there.
package command

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "phxweb",
	Short: "A car-sharing service matching searches with parked vehicles",
	Long: `A car-sharing service which keeps a fleet of vehicles parked
in a series of geo-located lots and matches the users searches with
them. Users register, log in, and search for a vehicle of a category
within some radius of a coordinate. If no vehicle is available, the
search waits in a first-come-first-served queue and is satisfied as
soon as a matching vehicle is returned to a covering lot.
The fleet is loaded from a PostgreSQL database, REST APIs are served
using the Gin Gonic web framework, and metrics may be exported with
OpenTelemetry or scraped by Prometheus.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv, fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("ignoring the .env file", slog.Any("err", err))
	}
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
