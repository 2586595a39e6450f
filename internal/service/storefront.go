package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/storefront/internal/cart"
	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/customize"
	"github.com/kiwari-pos/storefront/internal/order"
	"github.com/kiwari-pos/storefront/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Messages shown on the view when the profile could not be loaded.
const (
	MsgNoToken      = "No token found. Please login."
	MsgProfileError = "Error fetching user data"
)

// Errors returned by the storefront service.
var (
	ErrItemNotLoaded = errors.New("item detail not loaded")
	ErrNoUser        = errors.New("no user id in credentials")
)

// Gateway is the read side of the remote data gateway.
// Satisfied by *catalog.Client; narrow interface for testability.
type Gateway interface {
	FetchCategories(ctx context.Context) ([]catalog.Category, error)
	FetchItem(ctx context.Context, id string) (*catalog.Item, error)
	FetchProfile(ctx context.Context, token string) (*catalog.Profile, error)
}

// Submitter places composed orders. Satisfied by *order.Submitter.
type Submitter interface {
	Submit(ctx context.Context, viewID uuid.UUID, req catalog.OrderRequest) (*order.Placement, error)
}

// Credentials identify the customer behind a request.
type Credentials struct {
	Token  string
	UserID string
}

// Storefront runs the item detail workflow. Every action loads the view,
// mutates it, and saves it back while holding the view's lock.
type Storefront struct {
	gateway   Gateway
	store     session.Store
	submitter Submitter
	policy    customize.DismissPolicy
	locks     *viewLocks
	log       *zap.Logger
}

// NewStorefront creates a new Storefront.
func NewStorefront(gateway Gateway, store session.Store, submitter Submitter, policy customize.DismissPolicy, log *zap.Logger) *Storefront {
	return &Storefront{
		gateway:   gateway,
		store:     store,
		submitter: submitter,
		policy:    policy,
		locks:     newViewLocks(),
		log:       log.Named("storefront"),
	}
}

// ListCategories returns the category grid.
func (s *Storefront) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return s.gateway.FetchCategories(ctx)
}

// Profile loads the customer's profile.
func (s *Storefront) Profile(ctx context.Context, creds Credentials) (*catalog.Profile, error) {
	return s.gateway.FetchProfile(ctx, creds.Token)
}

// OpenItem fetches the item and the profile concurrently and starts a view.
// A failed item fetch fails the open; a profile failure only sets the view's
// message.
func (s *Storefront) OpenItem(ctx context.Context, creds Credentials, itemID string) (*session.View, error) {
	var (
		item       *catalog.Item
		profile    *catalog.Profile
		profileErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		item, err = s.gateway.FetchItem(gctx, itemID)
		return err
	})
	g.Go(func() error {
		// Never fails the group; the outcome is reported on the view.
		profile, profileErr = s.gateway.FetchProfile(gctx, creds.Token)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("fetch item failed", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}

	v := session.NewView(creds.UserID, item)
	switch {
	case errors.Is(profileErr, catalog.ErrMissingCredential):
		v.Message = MsgNoToken
	case profileErr != nil:
		s.log.Warn("fetch profile failed", zap.String("item_id", itemID), zap.Error(profileErr))
		v.Message = MsgProfileError
	default:
		v.Profile = profile
	}

	if err := s.store.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("save view: %w", err)
	}
	return v, nil
}

// View returns the caller's view. Views opened by someone else are reported
// as not found.
func (s *Storefront) View(ctx context.Context, creds Credentials, viewID uuid.UUID) (*session.View, error) {
	v, err := s.store.Get(ctx, viewID)
	if err != nil {
		return nil, err
	}
	if v.UserID != creds.UserID {
		return nil, session.ErrNotFound
	}
	return v, nil
}

func (s *Storefront) IncrementQuantity(ctx context.Context, creds Credentials, viewID uuid.UUID) (*session.View, error) {
	return s.update(ctx, creds, viewID, func(v *session.View) error {
		v.Quantity = v.Quantity.Increment()
		return nil
	})
}

func (s *Storefront) DecrementQuantity(ctx context.Context, creds Credentials, viewID uuid.UUID) (*session.View, error) {
	return s.update(ctx, creds, viewID, func(v *session.View) error {
		v.Quantity = v.Quantity.Decrement()
		return nil
	})
}

// --- Customization dialog ---

func (s *Storefront) OpenCustomization(ctx context.Context, creds Credentials, viewID uuid.UUID) (*session.View, error) {
	return s.withDialog(ctx, creds, viewID, func(d *customize.Dialog) error {
		d.Open()
		return nil
	})
}

// SelectOption chooses option by name in the current step.
func (s *Storefront) SelectOption(ctx context.Context, creds Credentials, viewID uuid.UUID, option string) (*session.View, error) {
	return s.withDialog(ctx, creds, viewID, func(d *customize.Dialog) error {
		return d.Select(option)
	})
}

// Continue advances the dialog, finishing it on the last step.
func (s *Storefront) Continue(ctx context.Context, creds Credentials, viewID uuid.UUID) (*session.View, error) {
	return s.withDialog(ctx, creds, viewID, func(d *customize.Dialog) error {
		_, err := d.Continue()
		return err
	})
}

func (s *Storefront) Back(ctx context.Context, creds Credentials, viewID uuid.UUID) (*session.View, error) {
	return s.withDialog(ctx, creds, viewID, func(d *customize.Dialog) error {
		return d.Back()
	})
}

func (s *Storefront) Dismiss(ctx context.Context, creds Credentials, viewID uuid.UUID) (*session.View, error) {
	return s.withDialog(ctx, creds, viewID, func(d *customize.Dialog) error {
		d.Dismiss(s.policy)
		return nil
	})
}

// --- Cart ---

// AddToCart composes the view's line item and places it in one attempt.
// A placed order ends the view.
func (s *Storefront) AddToCart(ctx context.Context, creds Credentials, viewID uuid.UUID) (*order.Placement, error) {
	unlock := s.locks.lock(viewID)
	defer unlock()

	v, err := s.View(ctx, creds, viewID)
	if err != nil {
		return nil, err
	}
	if v.Item == nil {
		return nil, ErrItemNotLoaded
	}
	if creds.UserID == "" {
		return nil, ErrNoUser
	}

	lines, err := cart.Compose(v.Item, v.Quantity, v.Dialog().Engine().Selections())
	if err != nil {
		return nil, fmt.Errorf("compose cart: %w", err)
	}

	placement, err := s.submitter.Submit(ctx, v.ID, cart.NewOrder(creds.UserID, lines))
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, v.ID); err != nil {
		s.log.Warn("delete placed view failed", zap.String("view_id", v.ID.String()), zap.Error(err))
	}
	return placement, nil
}

// --- Helpers ---

func (s *Storefront) update(ctx context.Context, creds Credentials, viewID uuid.UUID, mutate func(v *session.View) error) (*session.View, error) {
	unlock := s.locks.lock(viewID)
	defer unlock()

	v, err := s.View(ctx, creds, viewID)
	if err != nil {
		return nil, err
	}
	if err := mutate(v); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("save view: %w", err)
	}
	return v, nil
}

func (s *Storefront) withDialog(ctx context.Context, creds Credentials, viewID uuid.UUID, fn func(d *customize.Dialog) error) (*session.View, error) {
	return s.update(ctx, creds, viewID, func(v *session.View) error {
		if v.Item == nil {
			return ErrItemNotLoaded
		}
		d := v.Dialog()
		if err := fn(d); err != nil {
			return err
		}
		v.SetDialog(d)
		return nil
	})
}
