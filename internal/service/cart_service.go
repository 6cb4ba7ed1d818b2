package service

import (
	"context"
	"errors"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ErrInvalidQuantity is returned for cart quantities below 1
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartStore is the storage surface the cart service needs
type CartStore interface {
	UpsertCartItem(ctx context.Context, item *models.CartItem) error
	GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	GetCartLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	DeleteCartItem(ctx context.Context, userID, cartItemID int64) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService manages the per-user pending purchase lines
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(st CartStore) *CartService {
	return &CartService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// CartView is the cart payload with line totals
type CartView struct {
	Items []models.CartLine `json:"items"`
	Total int64             `json:"total"`
}

// AddItem puts a product into the user's cart. Adding a product already in
// the cart bumps its quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.store.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.store.UpsertCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Info("Cart item added",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// View returns the user's cart with line and grand totals
func (s *CartService) View(ctx context.Context, userID int64) (*CartView, error) {
	lines, err := s.store.GetCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if lines == nil {
		lines = []models.CartLine{}
	}

	var total int64
	for _, line := range lines {
		total += line.UnitPrice * int64(line.Quantity)
	}

	return &CartView{Items: lines, Total: total}, nil
}

// RemoveItem removes one cart row belonging to the user
func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID int64) error {
	return s.store.DeleteCartItem(ctx, userID, cartItemID)
}

var _ CartStore = (*store.Store)(nil)
