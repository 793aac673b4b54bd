package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/midgard"
)

const swapActionType = "swap"

// swapMemoTypes are the memo prefixes of a swap, abbreviated ones included
var swapMemoTypes = map[string]bool{
	"swap": true,
	"s":    true,
	"=":    true,
}

// assetAliases are the short names a memo may use for a native asset
var assetAliases = map[string]common.Asset{
	"c":     common.CacaoAsset,
	"cacao": common.CacaoAsset,
	"b":     common.BTCAsset,
	"e":     common.ETHAsset,
	"d":     common.DASHAsset,
	"k":     common.KUJIAsset,
	"r":     common.RuneAsset,
}

// assetFromSwapMemo return the target asset of a swap memo like =:ETH.ETH:0xaddress
func assetFromSwapMemo(memo string) (common.Asset, error) {
	parts := strings.Split(memo, ":")
	if !swapMemoTypes[strings.ToLower(parts[0])] {
		return common.EmptyAsset, fmt.Errorf("memo %q is not a swap", memo)
	}
	if len(parts) < 2 || parts[1] == "" {
		return common.EmptyAsset, fmt.Errorf("memo %q has no asset", memo)
	}
	if asset, ok := assetAliases[strings.ToLower(parts[1])]; ok {
		return asset, nil
	}
	return common.NewAsset(parts[1])
}

// coinAmount express a Midgard coin in the decimals of its asset. Midgard use 1e8 for everything but CACAO.
func coinAmount(decimals map[string]int, coin midgard.Coin) (common.CryptoAmount, error) {
	asset, err := common.NewAsset(coin.Asset)
	if err != nil {
		return common.CryptoAmount{}, err
	}
	amount, err := common.ParseBaseAmount(coin.Amount, common.DefaultDecimals)
	if err != nil {
		return common.CryptoAmount{}, err
	}
	d, ok := decimals[asset.String()]
	if !ok {
		d = common.DefaultDecimals
	}
	if d == common.DefaultDecimals || asset.IsCacao() {
		return common.NewCryptoAmount(common.NewBaseAmount(amount.Amount, d), asset), nil
	}
	amount, err = amount.Rescale(d)
	if err != nil {
		return common.CryptoAmount{}, err
	}
	return common.NewCryptoAmount(amount, asset), nil
}

// mergeInbound fold the actions sharing an inbound transaction, streaming swaps show up once per sub swap.
// The first action of a group is kept and its inbound amounts become the sum of the group.
func mergeInbound(actions []midgard.Action) ([]midgard.Action, error) {
	merged := make([]midgard.Action, 0, len(actions))
	index := make(map[string]int, len(actions))
	for _, action := range actions {
		if len(action.In) == 0 || len(action.In[0].Coins) == 0 {
			continue
		}
		i, ok := index[action.In[0].TxID]
		if !ok {
			index[action.In[0].TxID] = len(merged)
			action.In = copyTransactions(action.In)
			merged = append(merged, action)
			continue
		}
		for j := range action.In {
			if j >= len(merged[i].In) || len(action.In[j].Coins) == 0 || len(merged[i].In[j].Coins) == 0 {
				continue
			}
			sum, err := addAmounts(merged[i].In[j].Coins[0].Amount, action.In[j].Coins[0].Amount)
			if err != nil {
				return nil, fmt.Errorf("fail to merge inbound %s: %w", action.In[0].TxID, err)
			}
			merged[i].In[j].Coins[0].Amount = sum
		}
	}
	return merged, nil
}

func copyTransactions(txs []midgard.Transaction) []midgard.Transaction {
	result := make([]midgard.Transaction, len(txs))
	for i, tx := range txs {
		tx.Coins = append([]midgard.Coin(nil), tx.Coins...)
		result[i] = tx
	}
	return result
}

func addAmounts(a, b string) (string, error) {
	x, err := common.ParseUint(a)
	if err != nil {
		return "", err
	}
	y, err := common.ParseUint(b)
	if err != nil {
		return "", err
	}
	sum, err := common.DecimalToUint(common.UintToDecimal(x).Add(common.UintToDecimal(y)))
	if err != nil {
		return "", err
	}
	return sum.String(), nil
}

// outboundOf pick the outbound transaction of a swap: the first one with a hash, otherwise the largest one.
// Swaps to CACAO settle natively and carry no hash.
func outboundOf(outs []midgard.Transaction) (midgard.Transaction, bool) {
	var best midgard.Transaction
	var bestAmount common.BaseAmount
	found := false
	for _, out := range outs {
		if len(out.Coins) == 0 {
			continue
		}
		if out.TxID != "" {
			return out, true
		}
		amount, err := common.ParseBaseAmount(out.Coins[0].Amount, common.DefaultDecimals)
		if err != nil {
			continue
		}
		if !found || amount.Cmp(bestAmount) > 0 {
			best, bestAmount, found = out, amount, true
		}
	}
	return best, found
}

func transactionAction(decimals map[string]int, tx midgard.Transaction) (TransactionAction, error) {
	amount, err := coinAmount(decimals, tx.Coins[0])
	if err != nil {
		return TransactionAction{}, err
	}
	return TransactionAction{
		Hash:    tx.TxID,
		Address: tx.Address,
		Amount:  amount,
	}, nil
}

func actionDate(date string) (time.Time, error) {
	ns, err := strconv.ParseInt(date, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("fail to parse action date %q: %w", date, err)
	}
	return time.Unix(0, ns).UTC(), nil
}

// GetSwapHistory return the swaps any of the addresses took part in, in the order Midgard return them.
// Actions Midgard can't describe as a swap are skipped with a warning.
func (q *MayachainQuery) GetSwapHistory(ctx context.Context, addresses []string) (SwapHistory, error) {
	if len(addresses) == 0 {
		return SwapHistory{}, ErrNoAddress
	}
	var history midgard.ActionHistory
	var decimals map[string]int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = q.cache.indexer.GetActions(gctx, addresses, swapActionType)
		if err != nil {
			return fmt.Errorf("fail to get swap actions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		decimals, err = q.cache.GetAssetDecimals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SwapHistory{}, err
	}

	var count int64
	if history.Count != "" {
		var err error
		count, err = strconv.ParseInt(history.Count, 10, 64)
		if err != nil {
			return SwapHistory{}, fmt.Errorf("fail to parse action count %q: %w", history.Count, err)
		}
	}
	actions, err := mergeInbound(history.Actions)
	if err != nil {
		return SwapHistory{}, err
	}
	swaps := make([]Swap, 0, len(actions))
	for _, action := range actions {
		swap, err := swapOf(decimals, action)
		if err != nil {
			q.logger.Warn().Err(err).Str("tx_id", action.In[0].TxID).Msg("fail to read swap action, skip it")
			continue
		}
		swaps = append(swaps, swap)
	}
	return SwapHistory{
		Count: count,
		Swaps: swaps,
	}, nil
}

func swapOf(decimals map[string]int, action midgard.Action) (Swap, error) {
	if action.Metadata.Swap == nil {
		return Swap{}, fmt.Errorf("action has no swap metadata")
	}
	date, err := actionDate(action.Date)
	if err != nil {
		return Swap{}, err
	}
	inbound, err := transactionAction(decimals, action.In[0])
	if err != nil {
		return Swap{}, fmt.Errorf("fail to read inbound: %w", err)
	}
	toAsset, err := assetFromSwapMemo(action.Metadata.Swap.Memo)
	if err != nil {
		return Swap{}, err
	}
	swap := Swap{
		Date:      date,
		Status:    SwapSuccess,
		FromAsset: inbound.Amount.Asset,
		ToAsset:   toAsset,
		InboundTx: inbound,
	}
	if action.Status == string(SwapPending) {
		swap.Status = SwapPending
		return swap, nil
	}
	if out, ok := outboundOf(action.Out); ok {
		outbound, err := transactionAction(decimals, out)
		if err != nil {
			return Swap{}, fmt.Errorf("fail to read outbound: %w", err)
		}
		swap.OutboundTx = &outbound
	}
	return swap, nil
}
