package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/order"
	"github.com/kiwari-pos/storefront/internal/service"
	"github.com/kiwari-pos/storefront/internal/session"
	"go.uber.org/zap"
)

// ViewService is the item detail workflow.
// Satisfied by *service.Storefront; narrow interface for testability.
type ViewService interface {
	OpenItem(ctx context.Context, creds service.Credentials, itemID string) (*session.View, error)
	View(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)
	IncrementQuantity(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)
	DecrementQuantity(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)
	OpenCustomization(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)
	SelectOption(ctx context.Context, creds service.Credentials, viewID uuid.UUID, option string) (*session.View, error)
	Continue(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)
	Back(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)
	Dismiss(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)
	AddToCart(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*order.Placement, error)
}

// ViewHandler serves item detail views.
type ViewHandler struct {
	svc ViewService
	log *zap.Logger
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(svc ViewService, log *zap.Logger) *ViewHandler {
	return &ViewHandler{svc: svc, log: log}
}

// RegisterRoutes registers item and view endpoints. Expected to be mounted
// inside an authenticated group.
func (h *ViewHandler) RegisterRoutes(r chi.Router) {
	r.Post("/items/{id}/views", h.Open)

	r.Route("/views/{vid}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/quantity/increment", h.action(h.svc.IncrementQuantity))
		r.Post("/quantity/decrement", h.action(h.svc.DecrementQuantity))
		r.Post("/customization/open", h.action(h.svc.OpenCustomization))
		r.Post("/customization/select", h.Select)
		r.Post("/customization/continue", h.action(h.svc.Continue))
		r.Post("/customization/back", h.action(h.svc.Back))
		r.Post("/customization/dismiss", h.action(h.svc.Dismiss))
		r.Post("/cart", h.AddToCart)
	})
}

// --- Request / Response types ---

type selectOptionRequest struct {
	Option string `json:"option"`
}

type itemResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Price       *catalog.Money `json:"price"`
	Type        string         `json:"type"`
	IsVeg       bool           `json:"is_veg"`
	SpiceLevel  string         `json:"spice_level"`
	Ingredients []string       `json:"ingredients"`
	ImageURL    string         `json:"image_url"`
}

type optionResponse struct {
	Name      string        `json:"name"`
	Detail    string        `json:"detail"`
	ExtraRate catalog.Money `json:"extra_rate"`
	Selected  bool          `json:"selected"`
}

type customizationResponse struct {
	Status      string           `json:"status"`
	Step        int              `json:"step"`
	Steps       int              `json:"steps"`
	Title       string           `json:"title"`
	FinishLabel string           `json:"finish_label"`
	Options     []optionResponse `json:"options"`
}

type viewResponse struct {
	ID            uuid.UUID             `json:"id"`
	Item          *itemResponse         `json:"item"`
	Profile       *profileResponse      `json:"profile,omitempty"`
	Quantity      int                   `json:"quantity"`
	QuantityLabel string                `json:"quantity_label"`
	Customization customizationResponse `json:"customization"`
	Message       string                `json:"message,omitempty"`
}

type placementResponse struct {
	Route string          `json:"route"`
	Order json.RawMessage `json:"order"`
}

func toViewResponse(v *session.View) viewResponse {
	d := v.Dialog()
	e := d.Engine()

	resp := viewResponse{
		ID:            v.ID,
		Profile:       toProfileResponse(v.Profile),
		Quantity:      int(v.Quantity),
		QuantityLabel: v.Quantity.Label(),
		Customization: customizationResponse{
			Status:      d.Status(),
			Step:        e.CurrentStep(),
			Steps:       e.Steps(),
			FinishLabel: d.FinishLabel(),
			Options:     []optionResponse{},
		},
		Message: v.Message,
	}

	if v.Item != nil {
		resp.Item = &itemResponse{
			ID:          v.Item.ID,
			Name:        v.Item.ItemName,
			Price:       v.Item.Price,
			Type:        v.Item.ItemType,
			IsVeg:       v.Item.IsVeg(),
			SpiceLevel:  v.Item.SpiceLevel,
			Ingredients: v.Item.IngredientList(),
			ImageURL:    v.Item.ImageURL,
		}
	}

	if g, ok := e.CurrentGroup(); ok {
		resp.Customization.Title = g.Title
		for _, opt := range g.Options {
			resp.Customization.Options = append(resp.Customization.Options, optionResponse{
				Name:      opt.Name,
				Detail:    opt.Detail,
				ExtraRate: opt.ExtraRate,
				Selected:  e.IsSelected(e.CurrentStep(), opt.Key()),
			})
		}
	}
	return resp
}

// --- Handlers ---

// Open handles POST /items/{id}/views.
func (h *ViewHandler) Open(w http.ResponseWriter, r *http.Request) {
	creds, ok := credentials(w, r)
	if !ok {
		return
	}
	itemID := strings.TrimSpace(chi.URLParam(r, "id"))
	if itemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item id is required"})
		return
	}

	v, err := h.svc.OpenItem(r.Context(), creds, itemID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toViewResponse(v))
}

// Get handles GET /views/{vid}.
func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.action(h.svc.View)(w, r)
}

// Select handles POST /views/{vid}/customization/select.
func (h *ViewHandler) Select(w http.ResponseWriter, r *http.Request) {
	creds, ok := credentials(w, r)
	if !ok {
		return
	}
	viewID, ok := parseViewID(w, r)
	if !ok {
		return
	}

	var req selectOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Option == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "option is required"})
		return
	}

	v, err := h.svc.SelectOption(r.Context(), creds, viewID, req.Option)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toViewResponse(v))
}

// AddToCart handles POST /views/{vid}/cart.
func (h *ViewHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	creds, ok := credentials(w, r)
	if !ok {
		return
	}
	viewID, ok := parseViewID(w, r)
	if !ok {
		return
	}

	placement, err := h.svc.AddToCart(r.Context(), creds, viewID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, placementResponse{Route: placement.Route, Order: placement.Order})
}

// --- Helpers ---

type viewAction func(ctx context.Context, creds service.Credentials, viewID uuid.UUID) (*session.View, error)

// action adapts a body-less view mutation into a handler that answers with
// the updated view model.
func (h *ViewHandler) action(fn viewAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := credentials(w, r)
		if !ok {
			return
		}
		viewID, ok := parseViewID(w, r)
		if !ok {
			return
		}

		v, err := fn(r.Context(), creds, viewID)
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, toViewResponse(v))
	}
}

func parseViewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "vid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid view id"})
		return uuid.Nil, false
	}
	return id, true
}
