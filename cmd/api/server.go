package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bookshelf-api/internal/seed"
	"bookshelf-api/pkg/container"
)

// Serve builds the container, prepares the schema and demo data, and
// runs the HTTP server until a signal or the shutdown endpoint stops it.
func Serve() {
	ctx := context.Background()

	c, err := container.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize container")
	}
	defer c.Cleanup()

	if err := seed.Run(ctx, c.DB, c.Config.Seed); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	// Closed by the shutdown endpoint; signals feed the same exit path.
	shutdownCh := make(chan struct{})

	router, err := SetupRouter(c, shutdownCh)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up router")
	}

	port := c.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", c.Config.App.Environment).
			Str("docs", fmt.Sprintf("http://%s:%s%s", c.Config.App.Host, port, c.Config.App.APIPrefix)).
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-shutdownCh:
		log.Info().Msg("shutdown requested over HTTP")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server exited")
}
