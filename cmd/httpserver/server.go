// Package httpserver binds every spec section 6 entry point to a chi route
// (SPEC_FULL.md section 5).
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/luckystake/pool-engine/application"
	"github.com/luckystake/pool-engine/domain/entities"
	"github.com/luckystake/pool-engine/infrastructure"
	"github.com/luckystake/pool-engine/infrastructure/wshub"
)

// Server exposes the pool engine's HTTP API.
type Server struct {
	app    *application.PoolAppService
	wsHub  *wshub.Hub
	router chi.Router
}

// NewServer builds the HTTP router for the pool engine's external
// interfaces, wiring Prometheus request metrics around every route.
func NewServer(app *application.PoolAppService, wsHub *wshub.Hub) *Server {
	s := &Server{app: app, wsHub: wsHub}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(infrastructure.MetricsMiddleware)

	r.Route("/v1/pools", func(r chi.Router) {
		r.Post("/", s.handleInitialize)

		r.Route("/{poolID}", func(r chi.Router) {
			r.Get("/", s.handleGetPool)
			r.Get("/stream", s.handleStream)
			r.Post("/deposit", s.handleDeposit)
			r.Post("/withdraw", s.handleWithdraw)
			r.Get("/depositors/{address}", s.handleGetDepositor)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/lender-pool", s.handleSetLenderPool)
				r.Post("/supply", s.handleSupplyToLender)
				r.Post("/withdraw-from-lender", s.handleWithdrawFromLender)
				r.Post("/harvest", s.handleHarvestYield)
				r.Post("/draw", s.handleExecuteDraw)
			})
		})
	})

	r.Handle("/metrics", infrastructure.MetricsHandler())

	s.router = r
	return s
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func poolIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "poolID"), 10, 64)
}

func adminCaller(r *http.Request) string {
	return r.Header.Get("X-Admin-Address")
}

func idempotencyKey(r *http.Request) string {
	return r.Header.Get("Idempotency-Key")
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to encode response body")
	}
}

// writeError maps a domain error to its HTTP status, re-expressing the
// contract's panic-on-require assertions as status codes instead (spec
// section 7's precondition errors become 4xx, external/slippage failures
// become 502/409).
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, entities.ErrAlreadyInitialized):
		status = http.StatusConflict
	case errors.Is(err, entities.ErrNotInitialized),
		errors.Is(err, entities.ErrLenderNotSet):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrBadPeriod),
		errors.Is(err, entities.ErrZeroAmount),
		errors.Is(err, entities.ErrInsufficientBalance),
		errors.Is(err, entities.ErrLenderPoolLocked),
		errors.Is(err, entities.ErrNoParticipants),
		errors.Is(err, entities.ErrNoTickets),
		errors.Is(err, entities.ErrNoPrize):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrSlippageExceeded):
		status = http.StatusConflict
	case errors.Is(err, entities.ErrTokenTransferFailed),
		errors.Is(err, entities.ErrLenderRejected):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

type initializeRequest struct {
	PoolID     int64  `json:"pool_id"`
	Admin      string `json:"admin"`
	Token      string `json:"token"`
	PeriodDays uint32 `json:"period_days"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.app.Initialize(r.Context(), req.PoolID, req.Admin, req.Token, req.PeriodDays); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

type amountRequest struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.app.Deposit(r.Context(), poolID, req.Address, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.app.Withdraw(r.Context(), poolID, req.Address, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type setLenderPoolRequest struct {
	LenderPool string `json:"lender_pool"`
}

func (s *Server) handleSetLenderPool(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	var req setLenderPoolRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.app.SetLenderPool(r.Context(), poolID, adminCaller(r), req.LenderPool); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type lenderAmountRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	MinReturn decimal.Decimal `json:"min_return"`
}

func (s *Server) handleSupplyToLender(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	var req lenderAmountRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.app.SupplyToLender(r.Context(), poolID, adminCaller(r), req.Amount, idempotencyKey(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type realizedResponse struct {
	Realized decimal.Decimal `json:"realized"`
}

func (s *Server) handleWithdrawFromLender(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	var req lenderAmountRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	realized, err := s.app.WithdrawFromLender(r.Context(), poolID, adminCaller(r), req.Amount, req.MinReturn, idempotencyKey(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, realizedResponse{Realized: realized})
}

func (s *Server) handleHarvestYield(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	var req lenderAmountRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	realized, err := s.app.HarvestYield(r.Context(), poolID, adminCaller(r), req.Amount, req.MinReturn, idempotencyKey(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, realizedResponse{Realized: realized})
}

func (s *Server) handleExecuteDraw(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}

	draw, err := s.app.ExecuteDraw(r.Context(), poolID, adminCaller(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draw)
}

type depositorResponse struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
	Tickets decimal.Decimal `json:"tickets"`
}

func (s *Server) handleGetDepositor(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	address := chi.URLParam(r, "address")

	balance, err := s.app.GetBalance(r.Context(), poolID, address)
	if err != nil {
		writeError(w, err)
		return
	}
	tickets, err := s.app.GetTickets(r.Context(), poolID, address)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, depositorResponse{Address: address, Balance: balance, Tickets: tickets})
}

type poolResponse struct {
	Pool     *entities.PoolState  `json:"pool"`
	LastDraw *entities.DrawRecord `json:"last_draw,omitempty"`
	History  []*entities.DrawRecord `json:"history,omitempty"`
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}

	pool, err := s.app.GetPool(r.Context(), poolID)
	if err != nil {
		writeError(w, err)
		return
	}

	lastDraw, err := s.app.GetLastDraw(r.Context(), poolID)
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := s.app.GetDrawHistory(r.Context(), poolID, 20)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poolResponse{Pool: pool, LastDraw: lastDraw, History: history})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.wsHub == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "event stream not configured"})
		return
	}
	poolID, err := poolIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pool id"})
		return
	}
	s.wsHub.HandleWS(w, r, poolID)
}
