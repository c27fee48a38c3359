package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/slhlabs/wallet-middleware/pkg/app/http"
	"github.com/slhlabs/wallet-middleware/pkg/auth"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers admin endpoints behind the token middleware.
func RegisterRoutes(r chi.Router, service Service, issuer *auth.TokenIssuer, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(issuer.RequireAdmin)
		r.Get("/summary", apphttp.HandleError(h.summary))
	})
}

func (h *HTTP) summary(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Summary(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}
