package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/service"
	"go.uber.org/zap"
)

// ProfileLoader loads the signed-in customer's profile.
// Satisfied by *service.Storefront.
type ProfileLoader interface {
	Profile(ctx context.Context, creds service.Credentials) (*catalog.Profile, error)
}

// CustomerHandler serves the customer's own profile.
type CustomerHandler struct {
	svc ProfileLoader
	log *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(svc ProfileLoader, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, log: log}
}

// RegisterRoutes registers the profile endpoint. Expected to be mounted at
// /me inside an authenticated group.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func toProfileResponse(p *catalog.Profile) *profileResponse {
	if p == nil {
		return nil
	}
	return &profileResponse{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
}

// Get handles GET /me.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	creds, ok := credentials(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.Profile(r.Context(), creds)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}
