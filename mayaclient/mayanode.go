package mayaclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"

	"github.com/blang/semver"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/config"
	"gitlab.com/mayachain/mayaquery/mayaclient/types"
	"gitlab.com/mayachain/mayaquery/metrics"
)

// Endpoint urls
const (
	MimirEndpoint            = "/mayachain/mimir"
	InboundAddressesEndpoint = "/mayachain/inbound_addresses"
	PoolsEndpoint            = "/mayachain/pools"
	QuoteSwapEndpoint        = "/mayachain/quote/swap"
	VersionEndpoint          = "/mayachain/version"
)

// MayanodeClient query the Mayanode REST api, hosts are tried in order
type MayanodeClient struct {
	logger     zerolog.Logger
	cfg        config.HostsConfiguration
	errCounter *prometheus.CounterVec
	httpClient *retryablehttp.Client
	limiter    *rate.Limiter
}

// NewMayanodeClient create a new instance of MayanodeClient
func NewMayanodeClient(cfg config.HostsConfiguration, httpCfg config.HTTPConfiguration, m *metrics.Metrics) (*MayanodeClient, error) {
	logger := log.With().Str("module", "mayanode_client").Logger()
	if len(cfg.Hosts) == 0 {
		return nil, errors.New("mayanode hosts are empty")
	}
	if m == nil {
		return nil, errors.New("metrics is nil")
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	limit := rate.Inf
	if httpCfg.RateLimit > 0 {
		limit = rate.Limit(httpCfg.RateLimit)
	}
	burst := httpCfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return &MayanodeClient{
		logger:     logger,
		cfg:        cfg,
		errCounter: m.GetCounterVec(metrics.MayanodeClientError),
		httpClient: common.NewRetryableHTTPClient(logger, httpCfg.ClientOptions()),
		limiter:    rate.NewLimiter(limit, burst),
	}, nil
}

// getMayanodeURL with the given host and path
func (c *MayanodeClient) getMayanodeURL(host, path string, query url.Values) string {
	uri := url.URL{
		Scheme:   c.cfg.Scheme,
		Host:     host,
		Path:     path,
		RawQuery: query.Encode(),
	}
	return uri.String()
}

// get try every host in order, the body of a non 200 response is returned along with an error
func (c *MayanodeClient) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	var lastErr error
	for _, host := range c.cfg.Hosts {
		buf, status, err := c.getFromHost(ctx, c.getMayanodeURL(host, path, query))
		if err == nil || buf != nil {
			return buf, status, err
		}
		if ctx.Err() != nil {
			return nil, status, ctx.Err()
		}
		c.logger.Warn().Err(err).Str("host", host).Str("path", path).Msg("fail to get from mayanode host")
		lastErr = err
	}
	return nil, http.StatusServiceUnavailable, lastErr
}

func (c *MayanodeClient) getFromHost(ctx context.Context, uri string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, http.StatusTooManyRequests, fmt.Errorf("fail to wait for rate limiter: %w", err)
	}
	req, err := retryablehttp.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("fail to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		c.errCounter.WithLabelValues("fail_get_from_mayanode", "").Inc()
		return nil, http.StatusNotFound, fmt.Errorf("failed to GET from mayanode: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error().Err(err).Msg("failed to close response body")
		}
	}()

	buf, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		c.errCounter.WithLabelValues("fail_read_mayanode_resp", "").Inc()
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return buf, resp.StatusCode, errors.New("Status code: " + resp.Status + " returned")
	}
	return buf, resp.StatusCode, nil
}

func (c *MayanodeClient) getJSON(ctx context.Context, path string, query url.Values, result interface{}) error {
	buf, _, err := c.get(ctx, path, query)
	if err != nil {
		return fmt.Errorf("fail to get %s: %w", path, err)
	}
	if err := json.Unmarshal(buf, result); err != nil {
		c.errCounter.WithLabelValues("fail_unmarshal_mayanode_resp", path).Inc()
		return fmt.Errorf("fail to unmarshal %s: %w", path, err)
	}
	return nil
}

// GetMimir return the mimir values by key
func (c *MayanodeClient) GetMimir(ctx context.Context) (map[string]int64, error) {
	mimir := make(map[string]int64)
	if err := c.getJSON(ctx, MimirEndpoint, nil, &mimir); err != nil {
		return nil, err
	}
	return mimir, nil
}

// GetInboundAddresses return the inbound address of every chain
func (c *MayanodeClient) GetInboundAddresses(ctx context.Context) ([]types.InboundAddress, error) {
	var addresses []types.InboundAddress
	if err := c.getJSON(ctx, InboundAddressesEndpoint, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetPools return all the pools
func (c *MayanodeClient) GetPools(ctx context.Context) ([]types.Pool, error) {
	var pools []types.Pool
	if err := c.getJSON(ctx, PoolsEndpoint, nil, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

// GetVersion return the current version of the node
func (c *MayanodeClient) GetVersion(ctx context.Context) (semver.Version, error) {
	var v types.Version
	if err := c.getJSON(ctx, VersionEndpoint, nil, &v); err != nil {
		return semver.Version{}, err
	}
	version, err := semver.Parse(v.Current)
	if err != nil {
		return semver.Version{}, fmt.Errorf("fail to parse version(%s): %w", v.Current, err)
	}
	return version, nil
}

func quoteSwapQuery(req types.QuoteSwapRequest) url.Values {
	query := url.Values{}
	query.Set("from_asset", req.FromAsset)
	query.Set("to_asset", req.ToAsset)
	query.Set("amount", common.UintOrZero(req.Amount).String())
	setString := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	setInt := func(key string, value int64) {
		if value != 0 {
			query.Set(key, strconv.FormatInt(value, 10))
		}
	}
	setString("destination", req.Destination)
	setInt("streaming_interval", req.StreamingInterval)
	setInt("streaming_quantity", req.StreamingQuantity)
	setInt("tolerance_bps", req.ToleranceBps)
	setInt("affiliate_bps", req.AffiliateBps)
	setString("affiliate", req.Affiliate)
	setInt("height", req.Height)
	return query
}

// GetSwapQuote request a swap quote, a quote rejected by the node is returned with Error set
func (c *MayanodeClient) GetSwapQuote(ctx context.Context, req types.QuoteSwapRequest) (types.QuoteSwapResponse, error) {
	var resp types.QuoteSwapResponse
	buf, status, err := c.get(ctx, QuoteSwapEndpoint, quoteSwapQuery(req))
	if err != nil && buf == nil {
		return resp, fmt.Errorf("fail to get swap quote: %w", err)
	}
	if jsonErr := json.Unmarshal(buf, &resp); jsonErr != nil {
		if err != nil {
			return resp, fmt.Errorf("fail to get swap quote: %w", err)
		}
		c.errCounter.WithLabelValues("fail_unmarshal_mayanode_resp", QuoteSwapEndpoint).Inc()
		return resp, fmt.Errorf("fail to unmarshal swap quote: %w", jsonErr)
	}
	if err != nil && resp.Error == "" {
		return resp, fmt.Errorf("fail to get swap quote, status %d: %w", status, err)
	}
	return resp, nil
}
