package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/slhlabs/wallet-middleware/pkg/app/errors"
	apphttp "github.com/slhlabs/wallet-middleware/pkg/app/http"
	"github.com/slhlabs/wallet-middleware/pkg/wallet"
)

const defaultTransferListLimit = 50

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers wallet endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/wallets", func(r chi.Router) {
		r.Post("/", apphttp.HandleError(h.registerOrUpdate))
		r.Get("/{identity}", apphttp.HandleError(h.get))
		r.Get("/{identity}/balances", apphttp.HandleError(h.balances))
		r.Get("/{identity}/transfers", apphttp.HandleError(h.listTransfers))
		r.Post("/{identity}/credit", apphttp.HandleError(h.credit))
		r.Post("/{identity}/debit", apphttp.HandleError(h.debit))
		r.Post("/{identity}/lock", apphttp.HandleError(h.lock))
		r.Post("/{identity}/unlock", apphttp.HandleError(h.unlock))
		r.Post("/{identity}/stakes", apphttp.HandleError(h.stake))
		r.Get("/{identity}/stakes", apphttp.HandleError(h.listStakes))
		r.Post("/{identity}/stakes/{stakeID}/close", apphttp.HandleError(h.closeStake))
	})
	r.Post("/transfers", apphttp.HandleError(h.transfer))
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Memo   string          `json:"memo,omitempty"`
}

type stakeRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	UnlockAt *time.Time      `json:"unlock_at,omitempty"`
}

func (h *HTTP) registerOrUpdate(w http.ResponseWriter, r *http.Request) error {
	var req wallet.UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := h.service.RegisterOrUpdate(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Get(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) balances(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Balances(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) listTransfers(w http.ResponseWriter, r *http.Request) error {
	limit := defaultTransferListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.BadRequestError(err, "invalid limit")
		}
		limit = parsed
	}

	resp, err := h.service.ListTransfers(r.Context(), chi.URLParam(r, "identity"), limit)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) credit(w http.ResponseWriter, r *http.Request) error {
	return h.ledgerOp(w, r, h.service.Credit)
}

func (h *HTTP) debit(w http.ResponseWriter, r *http.Request) error {
	return h.ledgerOp(w, r, h.service.Debit)
}

func (h *HTTP) lock(w http.ResponseWriter, r *http.Request) error {
	return h.ledgerOp(w, r, h.service.Lock)
}

func (h *HTTP) unlock(w http.ResponseWriter, r *http.Request) error {
	return h.ledgerOp(w, r, h.service.Unlock)
}

func (h *HTTP) ledgerOp(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, identity string, amount decimal.Decimal) error,
) error {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	identity := chi.URLParam(r, "identity")
	if err := op(r.Context(), identity, req.Amount); err != nil {
		return err
	}

	resp, err := h.service.Get(r.Context(), identity)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) transfer(w http.ResponseWriter, r *http.Request) error {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Transfer(r.Context(), req.From, req.To, req.Amount, req.Memo)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) stake(w http.ResponseWriter, r *http.Request) error {
	var req stakeRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Stake(r.Context(), chi.URLParam(r, "identity"), req.Amount, req.UnlockAt)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) listStakes(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.ListStakes(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) closeStake(w http.ResponseWriter, r *http.Request) error {
	stakeID, err := strconv.ParseInt(chi.URLParam(r, "stakeID"), 10, 64)
	if err != nil {
		return apperrors.BadRequestError(err, "invalid stake id")
	}

	resp, err := h.service.CloseStake(r.Context(), chi.URLParam(r, "identity"), stakeID)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
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
