package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/config"
	"gitlab.com/mayachain/mayaquery/liquidity"
	"gitlab.com/mayachain/mayaquery/query"
)

// Querier is what the api serve, implemented by query.MayachainQuery
type Querier interface {
	GetInboundDetails(ctx context.Context) (map[string]query.InboundDetail, error)
	GetChainInboundDetails(ctx context.Context, chain common.Chain) (query.InboundDetail, error)
	GetPools(ctx context.Context) (map[string]liquidity.LiquidityPool, error)
	GetAssetDecimals(ctx context.Context, asset common.Asset) (int, error)
	GetDustValues() map[string]common.CryptoAmount
	GetChainDustValue(chain common.Chain) (common.CryptoAmount, error)
	QuoteSwap(ctx context.Context, params query.QuoteSwapParams) (query.QuoteSwap, error)
	GetMAYANameDetails(ctx context.Context, name string) (*query.MAYANameDetails, error)
	GetSwapHistory(ctx context.Context, addresses []string) (query.SwapHistory, error)
}

// Server serve the query api over http
type Server struct {
	logger zerolog.Logger
	s      *http.Server
	q      Querier
	lmt    *limiter.Limiter
}

// NewServer create a new instance of Server
func NewServer(cfg config.APIConfiguration, q Querier) *Server {
	requestLimit := cfg.RequestLimit
	if requestLimit <= 0 {
		requestLimit = 10
	}
	lmt := tollbooth.NewLimiter(requestLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetMessage("You have reached maximum request limit.")
	srv := &Server{
		logger: log.With().Str("module", "api").Logger(),
		q:      q,
		lmt:    lmt,
	}
	srv.s = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.newHandler(),
	}
	return srv
}

func (s *Server) newHandler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/ping", http.HandlerFunc(s.pingHandler)).Methods(http.MethodGet)
	s.handle(router, "/inbound", s.inboundHandler)
	s.handle(router, "/inbound/{chain}", s.chainInboundHandler)
	s.handle(router, "/pools", s.poolsHandler)
	s.handle(router, "/decimals/{asset}", s.decimalsHandler)
	s.handle(router, "/dust", s.dustHandler)
	s.handle(router, "/dust/{chain}", s.chainDustHandler)
	s.handle(router, "/quote/swap", s.quoteSwapHandler)
	s.handle(router, "/mayaname/{name}", s.mayanameHandler)
	s.handle(router, "/swaps", s.swapsHandler)
	router.Use(mux.CORSMethodMiddleware(router))
	router.Use(customCORSHeader())
	return router
}

func (s *Server) handle(router *mux.Router, path string, handler http.HandlerFunc) {
	router.Handle(path, tollbooth.LimitFuncHandler(s.lmt, handler)).Methods(http.MethodGet, http.MethodOptions)
}

func customCORSHeader() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			next.ServeHTTP(w, req)
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("fail to write to response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// errorStatus map a query error to the http status it is served with
func errorStatus(err error) int {
	switch {
	case errors.Is(err, query.ErrUnknownChain),
		errors.Is(err, query.ErrNoDecimals),
		errors.Is(err, query.ErrPoolNotFound):
		return http.StatusNotFound
	case errors.Is(err, query.ErrInvalidQuoteParams),
		errors.Is(err, query.ErrNoAddress):
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusServiceUnavailable {
		s.logger.Error().Err(err).Msg("fail to query mayachain")
	}
	s.writeError(w, status, err)
}

func (s *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}

func (s *Server) inboundHandler(w http.ResponseWriter, r *http.Request) {
	details, err := s.q.GetInboundDetails(r.Context())
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, details)
}

func (s *Server) chainInboundHandler(w http.ResponseWriter, r *http.Request) {
	chain, err := common.NewChain(mux.Vars(r)["chain"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	detail, err := s.q.GetChainInboundDetails(r.Context(), chain)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) poolsHandler(w http.ResponseWriter, r *http.Request) {
	pools, err := s.q.GetPools(r.Context())
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	details := make([]liquidity.PoolDetail, 0, len(pools))
	for _, pool := range pools {
		details = append(details, pool.Pool)
	}
	s.writeJSON(w, http.StatusOK, details)
}

func (s *Server) decimalsHandler(w http.ResponseWriter, r *http.Request) {
	asset, err := common.NewAsset(mux.Vars(r)["asset"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	decimals, err := s.q.GetAssetDecimals(r.Context(), asset)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"asset":    asset,
		"decimals": decimals,
	})
}

func (s *Server) dustHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.q.GetDustValues())
}

func (s *Server) chainDustHandler(w http.ResponseWriter, r *http.Request) {
	chain, err := common.NewChain(mux.Vars(r)["chain"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	dust, err := s.q.GetChainDustValue(chain)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dust)
}

func (s *Server) quoteSwapHandler(w http.ResponseWriter, r *http.Request) {
	params, err := ParseQuoteSwapParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	quote, err := s.q.QuoteSwap(r.Context(), params)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) mayanameHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	details, err := s.q.GetMAYANameDetails(r.Context(), name)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	if details == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("MAYAName %s is not registered", name))
		return
	}
	s.writeJSON(w, http.StatusOK, details)
}

func (s *Server) swapsHandler(w http.ResponseWriter, r *http.Request) {
	history, err := s.q.GetSwapHistory(r.Context(), ParseAddresses(r.URL.Query()))
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

// Start the api server, it blocks until the server is stopped
func (s *Server) Start() error {
	if s.s == nil {
		return errors.New("invalid http server instance")
	}
	s.logger.Info().Str("addr", s.s.Addr).Msg("start api server")
	if err := s.s.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			return fmt.Errorf("fail to start http server: %w", err)
		}
	}
	return nil
}

// Stop the api server
func (s *Server) Stop() error {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.s.Shutdown(c)
	if err != nil {
		s.logger.Error().Err(err).Msg("fail to shutdown the api server gracefully")
	}
	return err
}
