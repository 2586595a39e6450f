package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiwari-pos/storefront/internal/cart"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/customize"
	"github.com/kiwari-pos/storefront/internal/middleware"
	"github.com/kiwari-pos/storefront/internal/order"
	"github.com/kiwari-pos/storefront/internal/service"
	"github.com/kiwari-pos/storefront/internal/session"
	"go.uber.org/zap"
)

// writeServiceError maps workflow errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var fetchErr *catalog.FetchError
	var subErr *order.SubmissionError

	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "view not found"})
	case errors.Is(err, catalog.ErrMissingCredential), errors.Is(err, service.ErrNoUser):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": middleware.MissingTokenMessage})
	case errors.As(err, &subErr):
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":     "failed to place order",
			"status":    subErr.StatusCode,
			"retryable": subErr.Retryable,
		})
	case errors.As(err, &fetchErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": fetchErr.Error()})
	case errors.Is(err, customize.ErrUnknownOption):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, customize.ErrDialogClosed), errors.Is(err, service.ErrItemNotLoaded):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, cart.ErrMissingPrice), errors.Is(err, cart.ErrMissingItem):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// credentials returns the caller set by the Authenticate middleware.
func credentials(w http.ResponseWriter, r *http.Request) (service.Credentials, bool) {
	c := middleware.CredentialsFromContext(r.Context())
	if c == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": middleware.MissingTokenMessage})
		return service.Credentials{}, false
	}
	return service.Credentials{Token: c.Token, UserID: c.UserID}, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}
