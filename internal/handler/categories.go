package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"go.uber.org/zap"
)

// CategoryLister loads the category grid.
// Satisfied by *service.Storefront; narrow interface for testability.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

// CategoryHandler serves the public category grid.
type CategoryHandler struct {
	svc CategoryLister
	log *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc CategoryLister, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, log: log}
}

// RegisterRoutes registers the category endpoint on the given Chi router.
// Expected to be mounted at /categories.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// --- Response types ---

type categoryResponse struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	ImageURL string `json:"image_url"`
}

// --- Handlers ---

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = categoryResponse{
			Name:     c.CategoryName,
			Image:    c.Image,
			ImageURL: c.CleanImageURL(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
