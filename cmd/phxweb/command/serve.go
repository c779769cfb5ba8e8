// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/phoenix/pkg/adapter/config"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres/fleetrp"
	"github.com/momeni/phoenix/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/routes"
	"github.com/momeni/phoenix/pkg/adapter/telemetry/prommx"
	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/repo"
	"github.com/momeni/phoenix/pkg/core/usecase/appuc"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the graceful shutdown of the web server and
// the drain of the dispatcher queue.
const shutdownTimeout = 15 * time.Second

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		cmd.Context(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	defer c.Close()
	log.Info(ctx, "configs are loaded", log.Valuer("config", c))

	mp, err := c.Telemetry.NewMeterProvider(ctx)
	if err != nil {
		return fmt.Errorf("creating meter provider: %w", err)
	}
	if mp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(
				context.Background(), shutdownTimeout,
			)
			defer cancel()
			if err := mp.Shutdown(ctx); err != nil {
				log.Warn(ctx, "meter provider shutdown", log.Err("err", err))
			}
		}()
	}

	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	app := appuc.New(p, fleetrp.New(), usersrp.New(), c)
	if err = app.Load(ctx); err != nil {
		return fmt.Errorf("loading the fleet: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), shutdownTimeout,
		)
		defer cancel()
		if err := app.Close(ctx); err != nil {
			log.Warn(ctx, "closing the app", log.Err("err", err))
		}
	}()

	var metrics http.Handler
	if *c.Telemetry.Prometheus {
		if metrics, err = prommx.Handler(app); err != nil {
			return fmt.Errorf("creating metrics handler: %w", err)
		}
	}
	e := c.Gin.NewEngine()
	routes.Register(e, app, metrics)
	return serve(ctx, &http.Server{
		Addr:              c.Gin.Address,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// serve runs srv until ctx is cancelled (e.g., by SIGTERM) and then
// shuts it down gracefully, so in-flight requests may be completed.
func serve(ctx context.Context, srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		log.Info(ctx, "web server is started", slog.String("addr", srv.Addr))
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return fmt.Errorf("running web server: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down the web server")
	sctx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running web server: %w", err)
	}
	return nil
}
