package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/slhlabs/wallet-middleware/pkg/app/errors"
	apphttp "github.com/slhlabs/wallet-middleware/pkg/app/http"
	"github.com/slhlabs/wallet-middleware/pkg/trade"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers trade offer endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/offers", func(r chi.Router) {
		r.Post("/", apphttp.HandleError(h.create))
		r.Get("/", apphttp.HandleError(h.list))
		r.Get("/summary", apphttp.HandleError(h.summary))
		r.Get("/{offerID}", apphttp.HandleError(h.get))
		r.Post("/{offerID}/reserve", apphttp.HandleError(h.reserve))
		r.Post("/{offerID}/complete", apphttp.HandleError(h.complete))
		r.Post("/{offerID}/cancel", apphttp.HandleError(h.cancel))
	})
}

type createRequest struct {
	Seller string          `json:"seller"`
	Asset  string          `json:"asset,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
}

type reserveRequest struct {
	Buyer string `json:"buyer"`
}

type callerRequest struct {
	Caller string `json:"caller"`
}

func (h *HTTP) create(w http.ResponseWriter, r *http.Request) error {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Create(r.Context(), req.Seller, req.Asset, req.Amount, req.Price)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request) error {
	id, err := offerID(r)
	if err != nil {
		return err
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	status := trade.StatusActive
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = trade.Status(raw)
	}

	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.BadRequestError(err, "invalid limit")
		}
		limit = parsed
	}

	resp, err := h.service.List(r.Context(), status, limit)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) summary(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.MarketSummary(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) reserve(w http.ResponseWriter, r *http.Request) error {
	id, err := offerID(r)
	if err != nil {
		return err
	}

	var req reserveRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Reserve(r.Context(), id, req.Buyer)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) complete(w http.ResponseWriter, r *http.Request) error {
	return h.transition(w, r, h.service.Complete)
}

func (h *HTTP) cancel(w http.ResponseWriter, r *http.Request) error {
	return h.transition(w, r, h.service.Cancel)
}

func (h *HTTP) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id int64, caller string) (*trade.Offer, error),
) error {
	id, err := offerID(r)
	if err != nil {
		return err
	}

	var req callerRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := op(r.Context(), id, req.Caller)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func offerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid offer id")
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}
