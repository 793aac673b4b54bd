package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"gitlab.com/mayachain/mayaquery/common"
)

const envPrefix = "mayaquery"

// Configuration for mayaquery
type Configuration struct {
	Network  string               `json:"network" mapstructure:"network"`
	Mayanode HostsConfiguration   `json:"mayanode" mapstructure:"mayanode"`
	Midgard  HostsConfiguration   `json:"midgard" mapstructure:"midgard"`
	HTTP     HTTPConfiguration    `json:"http" mapstructure:"http"`
	Cache    CacheConfiguration   `json:"cache" mapstructure:"cache"`
	Metrics  MetricsConfiguration `json:"metrics" mapstructure:"metrics"`
	API      APIConfiguration     `json:"api" mapstructure:"api"`
}

// HostsConfiguration is an ordered list of upstream hosts, the first one that answer wins
type HostsConfiguration struct {
	Scheme string   `json:"scheme" mapstructure:"scheme"`
	Hosts  []string `json:"hosts" mapstructure:"hosts"`
}

// HTTPConfiguration settings for the upstream http clients
type HTTPConfiguration struct {
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
	RetryMax     int           `json:"retry_max" mapstructure:"retry_max"`
	RetryWaitMin time.Duration `json:"retry_wait_min" mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `json:"retry_wait_max" mapstructure:"retry_wait_max"`
	// RateLimit is the number of upstream requests per second, zero means unlimited
	RateLimit float64 `json:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `json:"rate_burst" mapstructure:"rate_burst"`
}

// CacheConfiguration the freshness of each cached view
type CacheConfiguration struct {
	InboundTTL  time.Duration `json:"inbound_ttl" mapstructure:"inbound_ttl"`
	DecimalsTTL time.Duration `json:"decimals_ttl" mapstructure:"decimals_ttl"`
	PoolsTTL    time.Duration `json:"pools_ttl" mapstructure:"pools_ttl"`
	MAYANameTTL time.Duration `json:"mayaname_ttl" mapstructure:"mayaname_ttl"`
}

type MetricsConfiguration struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ListenPort   int           `json:"listen_port" mapstructure:"listen_port"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
}

// APIConfiguration settings for the http api
type APIConfiguration struct {
	ListenAddr string `json:"listen_addr" mapstructure:"listen_addr"`
	// RequestLimit is the number of requests per second allowed from one client
	RequestLimit float64 `json:"request_limit" mapstructure:"request_limit"`
}

// LoadConfig read the configuration from the given file, an empty file name means defaults and environment only
func LoadConfig(file string) (*Configuration, error) {
	v := viper.New()
	applyDefaultConfig(v)
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "fail to read from config file")
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "fail to unmarshal")
	}

	network, err := cfg.GetNetwork()
	if err != nil {
		return nil, err
	}
	cfg.Network = network.String()
	if len(cfg.Mayanode.Hosts) == 0 {
		cfg.Mayanode.Hosts = network.DefaultMayanodeHosts()
	}
	if len(cfg.Midgard.Hosts) == 0 {
		cfg.Midgard.Hosts = network.DefaultMidgardHosts()
	}
	return &cfg, nil
}

// GetNetwork return the parsed network
func (c Configuration) GetNetwork() (common.Network, error) {
	network, err := common.NewNetwork(c.Network)
	if err != nil {
		return "", errors.Wrap(err, "fail to parse network")
	}
	return network, nil
}

// ClientOptions return the retryable http client options
func (c HTTPConfiguration) ClientOptions() common.HTTPClientOptions {
	return common.HTTPClientOptions{
		Timeout:      c.Timeout,
		RetryMax:     c.RetryMax,
		RetryWaitMin: c.RetryWaitMin,
		RetryWaitMax: c.RetryWaitMax,
	}
}

func applyDefaultConfig(v *viper.Viper) {
	v.SetDefault("network", common.MainNet.String())
	v.SetDefault("mayanode.scheme", "https")
	v.SetDefault("mayanode.hosts", []string{})
	v.SetDefault("midgard.scheme", "https")
	v.SetDefault("midgard.hosts", []string{})
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.retry_max", 3)
	v.SetDefault("http.retry_wait_min", "500ms")
	v.SetDefault("http.retry_wait_max", "5s")
	v.SetDefault("http.rate_limit", 10)
	v.SetDefault("http.rate_burst", 20)
	v.SetDefault("cache.inbound_ttl", "5m")
	v.SetDefault("cache.decimals_ttl", "24h")
	v.SetDefault("cache.pools_ttl", "30s")
	v.SetDefault("cache.mayaname_ttl", "1m")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_port", 9000)
	v.SetDefault("metrics.read_timeout", "30s")
	v.SetDefault("metrics.write_timeout", "30s")
	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.request_limit", 10)
}
