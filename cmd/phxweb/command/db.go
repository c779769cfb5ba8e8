// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/phoenix/pkg/adapter/config"
	"github.com/momeni/phoenix/pkg/core/usecase/schemauc"
	"github.com/spf13/cobra"
)

const credsRenewalMessage = `
The admin role password is taken from the passwords file in the pass-dir
directory. Passwords of the admin and normal roles are renewed and the
new values are stored in that passwords file.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used.`,
}

// initDB loads the configuration file and passes a fresh
// schemauc.InitDBUseCase instance to run.
func initDB(
	run func(ctx context.Context, iduc *schemauc.InitDBUseCase) error,
) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	defer c.Close()
	return run(ctx, schemauc.NewInitDB(c))
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
