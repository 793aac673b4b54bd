package query

import (
	"context"

	"github.com/blang/semver"

	"gitlab.com/mayachain/mayaquery/mayaclient/types"
	"gitlab.com/mayachain/mayaquery/midgard"
)

// NodeAPI is the primary source, a Mayanode
type NodeAPI interface {
	GetMimir(ctx context.Context) (map[string]int64, error)
	GetInboundAddresses(ctx context.Context) ([]types.InboundAddress, error)
	GetPools(ctx context.Context) ([]types.Pool, error)
	GetSwapQuote(ctx context.Context, req types.QuoteSwapRequest) (types.QuoteSwapResponse, error)
	GetVersion(ctx context.Context) (semver.Version, error)
}

// IndexerAPI is the secondary source, a Midgard
type IndexerAPI interface {
	GetPools(ctx context.Context) ([]midgard.PoolDetail, error)
	GetMAYANameDetails(ctx context.Context, name string) (*midgard.MAYANameDetails, error)
	GetMAYANameReverseLookup(ctx context.Context, address string) ([]string, error)
	GetActions(ctx context.Context, addresses []string, actionType string) (midgard.ActionHistory, error)
}
