package main

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gitlab.com/mayachain/mayaquery/api"
	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/constants"
	"gitlab.com/mayachain/mayaquery/liquidity"
	"gitlab.com/mayachain/mayaquery/query"
)

type quoteFlags struct {
	decimals          string
	destination       string
	affiliate         string
	affiliateBps      int64
	toleranceBps      int64
	streamingInterval int64
	streamingQuantity int64
	height            int64
}

// values map the positional arguments and flags onto the api query string
func (f quoteFlags) values(from, to, amount string) url.Values {
	values := url.Values{}
	values.Set("from_asset", from)
	values.Set("to_asset", to)
	values.Set("amount", amount)
	if f.decimals != "" {
		values.Set("decimals", f.decimals)
	}
	if f.destination != "" {
		values.Set("destination", f.destination)
	}
	if f.affiliate != "" {
		values.Set("affiliate", f.affiliate)
	}
	for key, v := range map[string]int64{
		"affiliate_bps":      f.affiliateBps,
		"tolerance_bps":      f.toleranceBps,
		"streaming_interval": f.streamingInterval,
		"streaming_quantity": f.streamingQuantity,
		"height":             f.height,
	} {
		if v != 0 {
			values.Set(key, strconv.FormatInt(v, 10))
		}
	}
	return values
}

// register the quote flags on fs
func (f *quoteFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.decimals, "decimals", "", "decimals of amount, Mayachain notation of the from asset when empty")
	fs.StringVar(&f.destination, "destination", "", "destination address")
	fs.StringVar(&f.affiliate, "affiliate", "", "affiliate address or MAYAName")
	fs.Int64Var(&f.affiliateBps, "affiliate-bps", 0, "affiliate fee in basis points")
	fs.Int64Var(&f.toleranceBps, "tolerance-bps", 0, "price tolerance in basis points")
	fs.Int64Var(&f.streamingInterval, "streaming-interval", 0, "blocks between streaming sub swaps")
	fs.Int64Var(&f.streamingQuantity, "streaming-quantity", 0, "number of streaming sub swaps")
	fs.Int64Var(&f.height, "height", 0, "block height to quote at, latest when zero")
}

func newQuoteCmd(root *rootFlags) *cobra.Command {
	flags := quoteFlags{}
	cmd := &cobra.Command{
		Use:   "quote <from asset> <to asset> <amount>",
		Short: "Estimate a swap, amount is a base amount",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := api.ParseQuoteSwapParams(flags.values(args[0], args[1], args[2]))
			if err != nil {
				return err
			}
			a, err := newApp(root)
			if err != nil {
				return err
			}
			quote, err := a.query.QuoteSwap(context.Background(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), quote)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newPoolsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "Print the liquidity pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			pools, err := a.query.GetPools(context.Background())
			if err != nil {
				return err
			}
			details := make([]liquidity.PoolDetail, 0, len(pools))
			for _, pool := range pools {
				details = append(details, pool.Pool)
			}
			sort.Slice(details, func(i, j int) bool { return details[i].Asset < details[j].Asset })
			return printJSON(cmd.OutOrStdout(), details)
		},
	}
}

func newInboundCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inbound [chain]",
		Short: "Print the inbound details of every chain or of the given one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				details, err := a.query.GetInboundDetails(context.Background())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), details)
			}
			chain, err := common.NewChain(args[0])
			if err != nil {
				return err
			}
			detail, err := a.query.GetChainInboundDetails(context.Background(), chain)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), detail)
		},
	}
}

func newDecimalsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "decimals <asset>",
		Short: "Print the native decimals of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := common.NewAsset(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(root)
			if err != nil {
				return err
			}
			decimals, err := a.query.GetAssetDecimals(context.Background(), asset)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"asset":    asset,
				"decimals": decimals,
			})
		},
	}
}

func newDustCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dust [chain]",
		Short: "Print the minimum inbound amount of every chain or of the given one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), a.query.GetDustValues())
			}
			chain, err := common.NewChain(args[0])
			if err != nil {
				return err
			}
			dust, err := a.query.GetChainDustValue(chain)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dust)
		},
	}
}

func newSwapsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "swaps <address>...",
		Short: "Print the swap history of one or more addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			history, err := a.query.GetSwapHistory(context.Background(), args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), history)
		},
	}
}

func newMAYANameCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mayaname",
		Short: "Lookup and estimate MAYANames",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "lookup <name>",
		Short: "Print the details of a MAYAName",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			details, err := a.query.GetMAYANameDetails(context.Background(), args[0])
			if err != nil {
				return err
			}
			if details == nil {
				return fmt.Errorf("MAYAName %s is not registered", args[0])
			}
			return printJSON(cmd.OutOrStdout(), details)
		},
	}, &cobra.Command{
		Use:   "owner <address>",
		Short: "Print the MAYANames an address is an alias of",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			names, err := a.query.GetMAYANamesByOwner(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), names)
		},
	}, newMAYANameEstimateCmd(root))
	return cmd
}

func newMAYANameEstimateCmd(root *rootFlags) *cobra.Command {
	var params query.QuoteMAYANameParams
	var expiry string
	cmd := &cobra.Command{
		Use:   "estimate <name>",
		Short: "Print the cost and the memo to register or update a MAYAName",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Name = args[0]
			if expiry != "" {
				t, err := time.Parse(time.RFC3339, expiry)
				if err != nil {
					return fmt.Errorf("fail to parse expiry: %w", err)
				}
				params.Expiry = &t
			}
			a, err := newApp(root)
			if err != nil {
				return err
			}
			estimate, err := a.query.EstimateMAYAName(context.Background(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), estimate)
		},
	}
	cmd.Flags().StringVar(&params.Owner, "owner", "", "owner address")
	cmd.Flags().BoolVar(&params.IsUpdate, "update", false, "update a registered MAYAName")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry time in RFC3339")
	cmd.Flags().StringVar(&params.Chain, "chain", "", "alias chain")
	cmd.Flags().StringVar(&params.ChainAddress, "address", "", "alias address")
	return cmd
}

func newHealthCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the health of midgard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			health, err := a.midgard.GetHealth(context.Background())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), health)
		},
	}
}

func newVersionCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of mayaquery and of the mayanode it talks to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), constants.VersionString(serverIdentity))
			a, err := newApp(root)
			if err != nil {
				return err
			}
			v, err := a.query.GetNodeVersion(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mayanode v%s\n", v)
			return nil
		},
	}
}
