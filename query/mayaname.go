package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/constants"
)

const (
	// BlocksPerYear is the number of blocks a new MAYAName is registered for
	BlocksPerYear = 5_256_000
	// SecondsPerBlock is the average Mayachain block time
	SecondsPerBlock = 6
)

// ErrExpiryInThePast is returned when the requested expiry is already over
var ErrExpiryInThePast = errors.New("Can not update expiry time before the one already registered")

// GetMAYANameDetails return the details of a MAYAName, nil when it is not registered
func (q *MayachainQuery) GetMAYANameDetails(ctx context.Context, name string) (*MAYANameDetails, error) {
	key := strings.ToLower(name)
	if cached, ok := q.mayanames.Get(key); ok {
		details, _ := cached.(*MAYANameDetails)
		return details.clone(), nil
	}
	raw, err := q.cache.indexer.GetMAYANameDetails(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fail to get MAYAName details: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	expire, err := strconv.ParseInt(raw.Expire, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("fail to parse MAYAName expiry %q: %w", raw.Expire, err)
	}
	details := &MAYANameDetails{
		Name:              name,
		Owner:             raw.Owner,
		ExpireBlockHeight: expire,
		Aliases:           make([]MAYANameAlias, 0, len(raw.Entries)),
	}
	for _, entry := range raw.Entries {
		details.Aliases = append(details.Aliases, MAYANameAlias{
			Chain:   entry.Chain,
			Address: entry.Address,
		})
	}
	q.mayanames.Set(key, details, gocache.DefaultExpiration)
	return details.clone(), nil
}

// GetMAYANamesByOwner return the details of every MAYAName the address is an alias of
func (q *MayachainQuery) GetMAYANamesByOwner(ctx context.Context, address string) ([]MAYANameDetails, error) {
	names, err := q.cache.indexer.GetMAYANameReverseLookup(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fail to reverse lookup MAYANames: %w", err)
	}
	found := make([]*MAYANameDetails, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			details, err := q.GetMAYANameDetails(gctx, name)
			if err != nil {
				return err
			}
			found[i] = details
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result := make([]MAYANameDetails, 0, len(found))
	for _, details := range found {
		if details != nil {
			result = append(result, *details)
		}
	}
	return result, nil
}

func mimirUint(mimir constants.Mimir, key constants.MimirKey) sdk.Uint {
	if v := mimir.Get(key); v > 0 {
		return sdk.NewUint(uint64(v))
	}
	return sdk.ZeroUint()
}

// EstimateMAYAName return the cost and the memo to register or update a MAYAName
func (q *MayachainQuery) EstimateMAYAName(ctx context.Context, params QuoteMAYANameParams) (QuoteMAYAName, error) {
	details, err := q.GetMAYANameDetails(ctx, params.Name)
	if err != nil {
		return QuoteMAYAName{}, err
	}
	if details == nil && params.IsUpdate {
		return QuoteMAYAName{}, ErrMAYANameNotRegistered
	}
	if details != nil && details.Owner != "" && !params.IsUpdate {
		return QuoteMAYAName{}, ErrMAYANameRegistered
	}

	var blocks int64
	if !params.IsUpdate {
		blocks = BlocksPerYear
	}
	if params.Expiry != nil {
		seconds := params.Expiry.Unix() - q.now().Unix()
		if seconds < 0 {
			return QuoteMAYAName{}, ErrExpiryInThePast
		}
		blocks = (seconds + SecondsPerBlock/2) / SecondsPerBlock
	}

	values, err := q.cache.node.GetMimir(ctx)
	if err != nil {
		return QuoteMAYAName{}, fmt.Errorf("fail to get mimir: %w", err)
	}
	mimir := constants.Mimir(values)
	value := mimirUint(mimir, constants.TNSFeePerBlock).MulUint64(uint64(blocks)).
		Add(mimirUint(mimir, constants.NativeTransactionFee))
	if !params.IsUpdate {
		value = value.Add(mimirUint(mimir, constants.TNSRegisterFee))
	}

	chain, address, owner := params.Chain, params.ChainAddress, params.Owner
	if params.IsUpdate {
		if len(details.Aliases) > 0 {
			if chain == "" {
				chain = details.Aliases[0].Chain
			}
			if address == "" {
				address = details.Aliases[0].Address
			}
		}
		if owner == "" {
			owner = details.Owner
		}
	}
	return QuoteMAYAName{
		Value: common.NewCryptoAmount(common.NewBaseAmount(value, common.CacaoDecimals), common.CacaoAsset),
		Memo:  fmt.Sprintf("~:%s:%s:%s:%s:%s", params.Name, chain, address, owner, common.CacaoAsset),
	}, nil
}
