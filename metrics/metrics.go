package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gitlab.com/mayachain/mayaquery/config"
)

// MetricName
type MetricName string

const (
	CacheRefresh         MetricName = `cache_refresh`
	CacheFallback        MetricName = `cache_fallback`
	CacheRefreshDuration MetricName = `cache_refresh_duration`

	MayanodeClientError MetricName = `mayanode_client_error`
	MidgardClientError  MetricName = `midgard_client_error`

	QuoteRequests MetricName = `quotes`
)

// Metrics used to provide promethus metrics, every instance has its own registry
type Metrics struct {
	logger        zerolog.Logger
	cfg           config.MetricsConfiguration
	s             *http.Server
	registry      *prometheus.Registry
	counters      map[MetricName]prometheus.Counter
	counterVecs   map[MetricName]*prometheus.CounterVec
	histogramVecs map[MetricName]*prometheus.HistogramVec
}

func newCounterVecs() map[MetricName]*prometheus.CounterVec {
	return map[MetricName]*prometheus.CounterVec{
		CacheRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mayaquery",
			Subsystem: "cache",
			Name:      "refresh_total",
			Help:      "number of cache refreshes by result",
		}, []string{"cache", "result"}),
		CacheFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mayaquery",
			Subsystem: "cache",
			Name:      "fallback_total",
			Help:      "number of refreshes served by the fallback source",
		}, []string{"cache"}),
		MayanodeClientError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mayaquery",
			Subsystem: "mayanode_client",
			Name:      "errors",
			Help:      "errors in mayanode client",
		}, []string{
			"error_name", "additional",
		}),
		MidgardClientError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mayaquery",
			Subsystem: "midgard_client",
			Name:      "errors",
			Help:      "errors in midgard client",
		}, []string{
			"error_name", "additional",
		}),
	}
}

// NewMetrics create a new instance of Metrics
func NewMetrics(cfg config.MetricsConfiguration) (*Metrics, error) {
	m := &Metrics{
		logger:   log.With().Str("module", "metrics").Logger(),
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		counters: map[MetricName]prometheus.Counter{
			QuoteRequests: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "mayaquery",
				Subsystem: "query",
				Name:      "quotes_total",
				Help:      "number of swap quotes requested",
			}),
		},
		counterVecs: newCounterVecs(),
		histogramVecs: map[MetricName]*prometheus.HistogramVec{
			CacheRefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "mayaquery",
				Subsystem: "cache",
				Name:      "refresh_duration_seconds",
				Help:      "how long it takes to refresh a cache",
			}, []string{"cache"}),
		},
	}
	for _, item := range m.counterVecs {
		if err := m.registry.Register(item); err != nil {
			return nil, fmt.Errorf("fail to register counter vec: %w", err)
		}
	}
	for _, item := range m.counters {
		if err := m.registry.Register(item); err != nil {
			return nil, fmt.Errorf("fail to register counter: %w", err)
		}
	}
	for _, item := range m.histogramVecs {
		if err := m.registry.Register(item); err != nil {
			return nil, fmt.Errorf("fail to register histogram: %w", err)
		}
	}
	// create a new mux server
	server := http.NewServeMux()
	// register a new handler for the /metrics endpoint
	server.Handle("/metrics", m.Handler())
	m.s = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ListenPort),
		Handler:      server,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return m, nil
}

// Handler serve the metrics of this instance
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry return the registry the metrics are registered to
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// GetCounter return a counter by name, if it doesn't exist, then it return nil
func (m *Metrics) GetCounter(name MetricName) prometheus.Counter {
	if counter, ok := m.counters[name]; ok {
		return counter
	}
	return nil
}

func (m *Metrics) GetCounterVec(name MetricName) *prometheus.CounterVec {
	if c, ok := m.counterVecs[name]; ok {
		return c
	}
	return nil
}

// GetHistogramVec return a histogram vec by name
func (m *Metrics) GetHistogramVec(name MetricName) *prometheus.HistogramVec {
	if h, ok := m.histogramVecs[name]; ok {
		return h
	}
	return nil
}

// Start
func (m *Metrics) Start() error {
	if !m.cfg.Enabled {
		return nil
	}
	go func() {
		m.logger.Info().Int("port", m.cfg.ListenPort).Msg("start metric server")
		if err := m.s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error().Err(err).Msg("fail to stop metric server")
		}
	}()
	return nil
}

// Stop
func (m *Metrics) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	return m.s.Shutdown(ctx)
}
