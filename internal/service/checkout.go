package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ClearReasonOrder marks a cart.cleared event triggered by a
// successfully submitted order.
const ClearReasonOrder = "order_submitted"

// refreshTimeout bounds the catalog re-fetch that follows an accepted
// order.
const refreshTimeout = 10 * time.Second

// OrderSubmitter posts an order to the order provider.
type OrderSubmitter interface {
	Submit(ctx context.Context, req domain.OrderRequest) (*domain.OrderConfirmation, error)
}

// CheckoutService tracks each session's position in the purchase flow
// and drives order submission.
type CheckoutService struct {
	repo     repository.CartRepository
	orders   OrderSubmitter
	catalog  *catalog.Cache
	producer *event.Producer
	logger   *slog.Logger

	mu     sync.Mutex
	states map[string]domain.CheckoutState
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	repo repository.CartRepository,
	orders OrderSubmitter,
	cache *catalog.Cache,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		repo:     repo,
		orders:   orders,
		catalog:  cache,
		producer: producer,
		logger:   logger,
		states:   make(map[string]domain.CheckoutState),
	}
}

// State returns the session's current checkout state. Sessions with no
// recorded state are browsing.
func (s *CheckoutService) State(sessionID string) domain.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[sessionID]; ok {
		return state
	}
	return domain.StateBrowsing
}

func (s *CheckoutService) setState(sessionID string, state domain.CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == domain.StateBrowsing {
		delete(s.states, sessionID)
		return
	}
	s.states[sessionID] = state
}

// OpenCart returns the session to browsing. Reopening the cart view
// exits checkout, and a completed purchase gives way to a fresh
// browsing session.
func (s *CheckoutService) OpenCart(sessionID string) {
	s.setState(sessionID, domain.StateBrowsing)
}

// StartCheckout moves the session into the checkout state. The cart
// must hold at least one item.
func (s *CheckoutService) StartCheckout(ctx context.Context, sessionID string) (domain.CheckoutState, error) {
	if sessionID == "" {
		return "", apperrors.InvalidInput("session id is required")
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if cart.IsEmpty() {
		return "", apperrors.InvalidInput("cart is empty")
	}

	s.setState(sessionID, domain.StateCheckout)

	s.logger.InfoContext(ctx, "checkout started",
		slog.String("session_id", sessionID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return domain.StateCheckout, nil
}

// CancelCheckout returns the session to browsing. The cart is kept.
func (s *CheckoutService) CancelCheckout(ctx context.Context, sessionID string) (domain.CheckoutState, error) {
	if sessionID == "" {
		return "", apperrors.InvalidInput("session id is required")
	}

	s.setState(sessionID, domain.StateBrowsing)

	s.logger.InfoContext(ctx, "checkout cancelled",
		slog.String("session_id", sessionID),
	)

	return domain.StateBrowsing, nil
}

// SubmitOrder validates the customer form, posts the order, and on
// acceptance clears the cart and marks the session completed. A
// rejected order leaves the cart and checkout state untouched so the
// customer can retry.
func (s *CheckoutService) SubmitOrder(ctx context.Context, sessionID string, customer domain.CustomerInfo) (*domain.OrderConfirmation, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	if !s.State(sessionID).CanSubmit() {
		return nil, apperrors.InvalidInput("checkout has not been started")
	}

	customer.Normalize()
	if missing := customer.MissingFields(); len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, name := range missing {
			fields[name] = "is required"
		}
		return nil, apperrors.Validation(fields)
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	conf, err := s.orders.Submit(ctx, domain.NewOrderRequest(customer, cart))
	if err != nil {
		s.logger.WarnContext(ctx, "order submission failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.setState(sessionID, domain.StateCompleted)

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after order",
			slog.String("session_id", sessionID),
			slog.String("order_id", conf.OrderID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderSubmitted(ctx, sessionID, conf, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("session_id", sessionID),
			slog.String("order_id", conf.OrderID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishCartCleared(ctx, sessionID, ClearReasonOrder); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("session_id", sessionID),
		slog.String("order_id", conf.OrderID),
		slog.Int64("total_price", cart.TotalPrice()),
	)

	// Stock levels changed on the provider side; re-fetch the catalog
	// without blocking the response.
	go s.refreshCatalog(context.WithoutCancel(ctx))

	return conf, nil
}

func (s *CheckoutService) refreshCatalog(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "catalog refresh after order failed",
			slog.String("error", err.Error()),
		)
	}
}

func (s *CheckoutService) loadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return loadCart(ctx, s.repo, s.logger, sessionID)
}
