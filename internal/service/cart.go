package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ClearReasonCustomer marks a cart.cleared event triggered by the
// customer emptying their own cart.
const ClearReasonCustomer = "customer"

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	catalog  *catalog.Cache
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, cache *catalog.Cache, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  cache,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. A missing cart yields a
// fresh empty cart; an unreadable cart is discarded and replaced by an
// empty one so the session can keep shopping.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.loadCart(ctx, sessionID)
}

func (s *CartService) loadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return loadCart(ctx, s.repo, s.logger, sessionID)
}

// loadCart reads a session's cart, substituting an empty cart when
// none exists or the stored value cannot be read.
func loadCart(ctx context.Context, repo repository.CartRepository, logger *slog.Logger, sessionID string) (*domain.Cart, error) {
	cart, err := repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID), nil
		}
		if errors.Is(err, apperrors.ErrStoreRead) {
			logger.WarnContext(ctx, "cart unreadable, starting with empty cart",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
			return domain.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds one unit of a product to the session's cart. The first
// add snapshots the product's price, image, and stock level; repeated
// adds increment the line quantity up to that snapshot's stock ceiling.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be greater than 0")
	}

	product, err := s.catalog.Get(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		item := &cart.Items[idx]
		if item.Quantity >= item.MaxStock {
			return nil, apperrors.InsufficientStock(item.Name)
		}
		item.Quantity++
	} else {
		if !product.InStock() {
			return nil, apperrors.InsufficientStock(product.Name)
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  1,
			MaxStock:  product.Stock,
		})
	}

	cart.Touch()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", productID),
	)

	return cart, nil
}

// UpdateQuantity adjusts the quantity of the cart line at the given
// position by delta. A resulting quantity of zero or less removes the
// line; exceeding the line's stock ceiling leaves the cart unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, index, delta int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(cart.Items) {
		return nil, apperrors.InvalidInput("item index out of range")
	}

	item := &cart.Items[index]
	newQty := item.Quantity + delta

	switch {
	case newQty <= 0:
		cart.RemoveAt(index)
	case newQty > item.MaxStock:
		return nil, apperrors.InsufficientStock(item.Name)
	default:
		item.Quantity = newQty
	}

	cart.Touch()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("session_id", sessionID),
		slog.Int("index", index),
		slog.Int("delta", delta),
	)

	return cart, nil
}

// RemoveItem deletes the cart line at the given position.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, index int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(cart.Items) {
		return nil, apperrors.InvalidInput("item index out of range")
	}

	removed := cart.Items[index]
	cart.RemoveAt(index)
	cart.Touch()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", removed.ProductID),
	)

	return cart, nil
}

// ClearCart removes the session's cart from the store.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID, ClearReasonCustomer); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
