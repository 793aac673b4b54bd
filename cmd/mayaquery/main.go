package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gitlab.com/mayachain/mayaquery/config"
	"gitlab.com/mayachain/mayaquery/mayaclient"
	"gitlab.com/mayachain/mayaquery/metrics"
	"gitlab.com/mayachain/mayaquery/midgard"
	"gitlab.com/mayachain/mayaquery/query"
)

const serverIdentity = "mayaquery"

type rootFlags struct {
	cfgFile   string
	logLevel  string
	prettyLog bool
}

// app is everything a subcommand needs, built lazily from the root flags
type app struct {
	cfg     *config.Configuration
	metrics *metrics.Metrics
	midgard *midgard.Client
	query   *query.MayachainQuery
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          serverIdentity,
		Short:        "Query Mayachain pools, inbound addresses and swap quotes",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			initLog(flags.logLevel, flags.prettyLog)
		},
	}
	root.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "configuration file with extension, defaults and environment only when empty")
	root.PersistentFlags().StringVarP(&flags.logLevel, "log-level", "l", "info", "Log Level")
	root.PersistentFlags().BoolVarP(&flags.prettyLog, "pretty-log", "p", false, "Enables unstructured prettified logging. This is useful for local debugging")

	root.AddCommand(
		newQuoteCmd(flags),
		newPoolsCmd(flags),
		newInboundCmd(flags),
		newDecimalsCmd(flags),
		newDustCmd(flags),
		newMAYANameCmd(flags),
		newSwapsCmd(flags),
		newHealthCmd(flags),
		newVersionCmd(flags),
		newServeCmd(flags),
	)
	return root
}

func initLog(level string, pretty bool) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Msgf("%s is not a valid log-level, falling back to 'info'", level)
		l = zerolog.InfoLevel
	}
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	zerolog.SetGlobalLevel(l)
	log.Logger = log.Output(out).With().Str("service", serverIdentity).Logger()
}

func newApp(flags *rootFlags) (*app, error) {
	cfg, err := config.LoadConfig(flags.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("fail to load config: %w", err)
	}
	m, err := metrics.NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("fail to create metric instance: %w", err)
	}
	node, err := mayaclient.NewMayanodeClient(cfg.Mayanode, cfg.HTTP, m)
	if err != nil {
		return nil, fmt.Errorf("fail to create mayanode client: %w", err)
	}
	indexer, err := midgard.NewClient(cfg.Midgard, cfg.HTTP, m)
	if err != nil {
		return nil, fmt.Errorf("fail to create midgard client: %w", err)
	}
	c, err := query.NewMayachainCache(node, indexer, cfg.Cache, m)
	if err != nil {
		return nil, fmt.Errorf("fail to create mayachain cache: %w", err)
	}
	q, err := query.NewMayachainQuery(c, cfg.Cache.MAYANameTTL)
	if err != nil {
		return nil, fmt.Errorf("fail to create mayachain query: %w", err)
	}
	return &app{
		cfg:     cfg,
		metrics: m,
		midgard: indexer,
		query:   q,
	}, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
