package midgard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/config"
	"gitlab.com/mayachain/mayaquery/metrics"
)

// Endpoint urls
const (
	PoolsEndpoint                 = "/v2/pools"
	HealthEndpoint                = "/v2/health"
	ActionsEndpoint               = "/v2/actions"
	MAYANameLookupEndpoint        = "/v2/mayaname/lookup/%s"
	MAYANameReverseLookupEndpoint = "/v2/mayaname/rlookup/%s"
)

// ErrNotResponding is returned once every midgard host failed
var ErrNotResponding = errors.New("midgard not responding")

// Client query the Midgard api, hosts are tried in order and the first one that answer wins
type Client struct {
	logger     zerolog.Logger
	cfg        config.HostsConfiguration
	errCounter *prometheus.CounterVec
	httpClient *retryablehttp.Client
}

// NewClient create a new instance of Client
func NewClient(cfg config.HostsConfiguration, httpCfg config.HTTPConfiguration, m *metrics.Metrics) (*Client, error) {
	logger := log.With().Str("module", "midgard_client").Logger()
	if len(cfg.Hosts) == 0 {
		return nil, errors.New("midgard hosts are empty")
	}
	if m == nil {
		return nil, errors.New("metrics is nil")
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	return &Client{
		logger:     logger,
		cfg:        cfg,
		errCounter: m.GetCounterVec(metrics.MidgardClientError),
		httpClient: common.NewRetryableHTTPClient(logger, httpCfg.ClientOptions()),
	}, nil
}

func (c *Client) getMidgardURL(host, path string, query url.Values) string {
	uri := url.URL{
		Scheme:   c.cfg.Scheme,
		Host:     host,
		Path:     path,
		RawQuery: query.Encode(),
	}
	return uri.String()
}

// get return the body of the first host that answer 200, found is false when a host answer 404
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, bool, error) {
	for _, host := range c.cfg.Hosts {
		req, err := retryablehttp.NewRequest(http.MethodGet, c.getMidgardURL(host, path, query), nil)
		if err != nil {
			return nil, false, fmt.Errorf("fail to create request: %w", err)
		}
		resp, err := c.httpClient.Do(req.WithContext(ctx))
		if err != nil {
			c.errCounter.WithLabelValues("fail_get_from_midgard", host).Inc()
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			c.logger.Warn().Err(err).Str("host", host).Str("path", path).Msg("fail to get from midgard host")
			continue
		}
		buf, err := ioutil.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error().Err(closeErr).Msg("failed to close response body")
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, false, nil
		case resp.StatusCode != http.StatusOK:
			c.errCounter.WithLabelValues("unexpected_midgard_status", host).Inc()
			c.logger.Warn().Int("status", resp.StatusCode).Str("host", host).Str("path", path).Msg("unexpected status from midgard host")
			continue
		case err != nil:
			c.errCounter.WithLabelValues("fail_read_midgard_resp", host).Inc()
			continue
		}
		return buf, true, nil
	}
	return nil, false, ErrNotResponding
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, result interface{}) (bool, error) {
	buf, found, err := c.get(ctx, path, query)
	if err != nil {
		return false, fmt.Errorf("fail to get %s: %w", path, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(buf, result); err != nil {
		c.errCounter.WithLabelValues("fail_unmarshal_midgard_resp", path).Inc()
		return false, fmt.Errorf("fail to unmarshal %s: %w", path, err)
	}
	return true, nil
}

// GetPools return the details of every pool
func (c *Client) GetPools(ctx context.Context) ([]PoolDetail, error) {
	var pools []PoolDetail
	found, err := c.getJSON(ctx, PoolsEndpoint, nil, &pools)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("fail to get pools: %w", ErrNotResponding)
	}
	return pools, nil
}

// GetMAYANameDetails return the details of a MAYAName, nil when the name is not registered
func (c *Client) GetMAYANameDetails(ctx context.Context, name string) (*MAYANameDetails, error) {
	var details MAYANameDetails
	found, err := c.getJSON(ctx, fmt.Sprintf(MAYANameLookupEndpoint, url.PathEscape(name)), nil, &details)
	if err != nil || !found {
		return nil, err
	}
	return &details, nil
}

// GetMAYANameReverseLookup return the MAYANames owned by address
func (c *Client) GetMAYANameReverseLookup(ctx context.Context, address string) ([]string, error) {
	var names []string
	found, err := c.getJSON(ctx, fmt.Sprintf(MAYANameReverseLookupEndpoint, url.PathEscape(address)), nil, &names)
	if err != nil || !found {
		return nil, err
	}
	return names, nil
}

// GetActions return the actions of actionType any of the addresses took part in, every type when actionType is empty
func (c *Client) GetActions(ctx context.Context, addresses []string, actionType string) (ActionHistory, error) {
	query := url.Values{}
	query.Set("address", strings.Join(addresses, ","))
	if actionType != "" {
		query.Set("type", actionType)
	}
	var history ActionHistory
	found, err := c.getJSON(ctx, ActionsEndpoint, query, &history)
	if err != nil {
		return ActionHistory{}, err
	}
	if !found {
		return ActionHistory{}, fmt.Errorf("fail to get actions: %w", ErrNotResponding)
	}
	return history, nil
}

// GetHealth return the health of the first midgard host that answer
func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	var health Health
	found, err := c.getJSON(ctx, HealthEndpoint, nil, &health)
	if err != nil {
		return Health{}, err
	}
	if !found {
		return Health{}, fmt.Errorf("fail to get health: %w", ErrNotResponding)
	}
	return health, nil
}
