package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gitlab.com/mayachain/mayaquery/api"
	"gitlab.com/mayachain/mayaquery/query"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the query api over http until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			// warm up, a failure here is retried on the first request
			if _, err := a.query.GetInboundDetails(context.Background()); err != nil {
				log.Warn().Err(err).Msg("fail to load inbound details")
			}
			if _, err := a.query.GetPools(context.Background()); err != nil {
				log.Warn().Err(err).Msg("fail to load pools")
			}

			if err := a.metrics.Start(); err != nil {
				return err
			}
			server := api.NewServer(a.cfg.API, a.query)
			errCh := make(chan error, 1)
			go func() {
				defer log.Info().Msg("api server exit")
				errCh <- server.Start()
			}()

			ch := make(chan os.Signal, 1)
			signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			waitForStop(ch, errCh, a.query.Cache())

			if err := server.Stop(); err != nil {
				log.Error().Err(err).Msg("fail to stop api server")
			}
			if a.cfg.Metrics.Enabled {
				if err := a.metrics.Stop(); err != nil {
					log.Error().Err(err).Msg("fail to stop metric server")
				}
			}
			return nil
		},
	}
}

// waitForStop block until a stop signal is received or the api server exit, SIGHUP drop the caches
func waitForStop(sigs <-chan os.Signal, errCh <-chan error, c *query.MayachainCache) {
	for {
		select {
		case sig := <-sigs:
			if sig != syscall.SIGHUP {
				log.Info().Msg("stop signal received")
				return
			}
			evt := log.Info()
			for name, status := range c.Status() {
				evt = evt.Dict(name, zerolog.Dict().Time("refreshed_at", status.RefreshedAt).Dur("ttl", status.TTL))
			}
			evt.Msg("reload signal received, invalidate the caches")
			c.Invalidate()
		case err := <-errCh:
			if err != nil {
				log.Error().Err(err).Msg("fail to start api server")
			}
			return
		}
	}
}
