package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/pkg/trade"
	"github.com/slhlabs/wallet-middleware/pkg/tradestore"
)

func newOfferTestServer(store *MockStore, registry *MockRegistry) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, newTestService(store, registry), zap.NewNop())
	return r
}

func TestOffersHTTP_Create(t *testing.T) {
	store := &MockStore{
		CreateFunc: func(_ context.Context, seller, asset string, amount, price decimal.Decimal) (*trade.Offer, error) {
			return &trade.Offer{
				ID:             1,
				SellerIdentity: seller,
				AssetSymbol:    asset,
				Amount:         amount,
				Price:          price,
				Status:         trade.StatusActive,
			}, nil
		},
	}
	handler := newOfferTestServer(store, nil)

	body := `{"seller":"100","amount":"25","price":"1.5"}`
	req := httptest.NewRequest(http.MethodPost, "/offers", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got trade.Offer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, "100", got.SellerIdentity)
	require.Equal(t, "SLH", got.AssetSymbol)
	require.Equal(t, trade.StatusActive, got.Status)
	require.True(t, got.Amount.Equal(decimal.RequireFromString("25")))
}

func TestOffersHTTP_CreateInvalidJSON(t *testing.T) {
	handler := newOfferTestServer(&MockStore{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/offers", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "invalid JSON", got.Error)
	require.Equal(t, http.StatusBadRequest, got.Code)
}

func TestOffersHTTP_GetNotFound(t *testing.T) {
	store := &MockStore{
		GetFunc: func(context.Context, int64) (*trade.Offer, error) {
			return nil, tradestore.ErrOfferNotFound
		},
	}
	handler := newOfferTestServer(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/offers/404", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOffersHTTP_GetInvalidID(t *testing.T) {
	handler := newOfferTestServer(&MockStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/offers/not-a-number", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOffersHTTP_ListDefaultsToActive(t *testing.T) {
	var gotStatus trade.Status
	store := &MockStore{
		ListFunc: func(_ context.Context, status trade.Status, _ int) ([]*trade.Offer, error) {
			gotStatus = status
			return []*trade.Offer{}, nil
		},
	}
	handler := newOfferTestServer(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/offers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, trade.StatusActive, gotStatus)
}

func TestOffersHTTP_ListUnknownStatus(t *testing.T) {
	handler := newOfferTestServer(&MockStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/offers?status=BOGUS", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOffersHTTP_ReserveConflict(t *testing.T) {
	store := &MockStore{
		ReserveFunc: func(context.Context, int64, string) (*trade.Offer, error) {
			return nil, tradestore.ErrInvalidState
		},
	}
	handler := newOfferTestServer(store, nil)

	req := httptest.NewRequest(http.MethodPost, "/offers/1/reserve", bytes.NewBufferString(`{"buyer":"200"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestOffersHTTP_CompleteForbiddenForNonSeller(t *testing.T) {
	store := &MockStore{
		GetFunc: func(_ context.Context, id int64) (*trade.Offer, error) {
			return &trade.Offer{ID: id, SellerIdentity: "100", Status: trade.StatusActive}, nil
		},
	}
	handler := newOfferTestServer(store, nil)

	req := httptest.NewRequest(http.MethodPost, "/offers/1/complete", bytes.NewBufferString(`{"caller":"999"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOffersHTTP_CancelBySeller(t *testing.T) {
	store := &MockStore{
		GetFunc: func(_ context.Context, id int64) (*trade.Offer, error) {
			return &trade.Offer{ID: id, SellerIdentity: "100", Status: trade.StatusActive}, nil
		},
		CancelFunc: func(_ context.Context, id int64) (*trade.Offer, error) {
			return &trade.Offer{ID: id, SellerIdentity: "100", Status: trade.StatusCancelled}, nil
		},
	}
	handler := newOfferTestServer(store, nil)

	req := httptest.NewRequest(http.MethodPost, "/offers/1/cancel", bytes.NewBufferString(`{"caller":"100"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got trade.Offer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, trade.StatusCancelled, got.Status)
}

func TestOffersHTTP_Summary(t *testing.T) {
	store := &MockStore{
		SummaryFunc: func(context.Context) (*trade.MarketSummary, error) {
			return &trade.MarketSummary{
				ActiveOffers: 2,
				Assets: []trade.AssetSummary{
					{AssetSymbol: "SLH", ActiveOffers: 2, AveragePrice: decimal.NewFromInt(3)},
				},
			}, nil
		},
	}
	handler := newOfferTestServer(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/offers/summary", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got trade.MarketSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 2, got.ActiveOffers)
	require.Len(t, got.Assets, 1)
}
