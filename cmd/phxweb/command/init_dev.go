// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/core/usecase/schemauc"
	"github.com/spf13/cobra"
)

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data,
that is, the vehicle categories and a series of lots around Genoa with
some vehicles parked in them. The database connection information are
read from the config file.
` + credsRenewalMessage + `

The phoenix schema is dropped (if it exists) and is created again.`,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initDev(_ *cobra.Command, _ []string) error {
	return initDB(func(
		ctx context.Context, iduc *schemauc.InitDBUseCase,
	) error {
		if err := iduc.InitDev(ctx); err != nil {
			return fmt.Errorf("initializing DB with dev data: %w", err)
		}
		return nil
	})
}

func init() {
	dbCmd.AddCommand(initDevCmd)
}
