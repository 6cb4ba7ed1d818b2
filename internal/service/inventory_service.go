package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// InventoryStore is the storage surface the inventory service needs
type InventoryStore interface {
	CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	GetInventoryItemByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	GetInventoryItems(ctx context.Context) ([]models.InventoryItem, error)
	GetInventoryItemsByOwner(ctx context.Context, ownerID int64) ([]models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id int64) error
	CountInventoryItemsByOwner(ctx context.Context, ownerID int64) (int, error)
	StockValueByOwner(ctx context.Context, ownerID int64) (int64, error)
	GetRecentSalesByOwner(ctx context.Context, ownerID int64, limit int) ([]models.Sale, error)
	CountReceiptsByUser(ctx context.Context, userID int64) (int, error)
}

// InventoryService handles inventory item business logic
type InventoryService struct {
	store  InventoryStore
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(st InventoryStore) *InventoryService {
	return &InventoryService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// ItemInput is a proposed inventory item write
type ItemInput struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// CreateItem validates and persists a new inventory item for the owner
func (s *InventoryService) CreateItem(ctx context.Context, ownerID int64, input ItemInput) (*models.InventoryItem, error) {
	if errs := ValidateItemInput(input.Name, input.Price, input.Quantity); errs != nil {
		return nil, errs
	}

	item := &models.InventoryItem{
		OwnerID:  ownerID,
		Name:     input.Name,
		Size:     input.Size,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	if err := s.store.CreateInventoryItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	s.logger.Info("Inventory item created",
		zap.Int64("item_id", item.ID),
		zap.Int64("owner_id", ownerID))
	return item, nil
}

// UpdateItem validates and applies an owner-scoped update. Updating an
// item that does not exist or belongs to another owner returns
// store.ErrNotFound.
func (s *InventoryService) UpdateItem(ctx context.Context, ownerID, itemID int64, input ItemInput) (*models.InventoryItem, error) {
	if errs := ValidateItemInput(input.Name, input.Price, input.Quantity); errs != nil {
		return nil, errs
	}

	item := &models.InventoryItem{
		ID:       itemID,
		OwnerID:  ownerID,
		Name:     input.Name,
		Size:     input.Size,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	if err := s.store.UpdateInventoryItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems lists all inventory items; the public read-only listing
func (s *InventoryService) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.store.GetInventoryItems(ctx)
}

// ListOwnerItems lists the items belonging to one owner
func (s *InventoryService) ListOwnerItems(ctx context.Context, ownerID int64) ([]models.InventoryItem, error) {
	return s.store.GetInventoryItemsByOwner(ctx, ownerID)
}

// GetItem retrieves a single item
func (s *InventoryService) GetItem(ctx context.Context, itemID int64) (*models.InventoryItem, error) {
	return s.store.GetInventoryItemByID(ctx, itemID)
}

// DeleteItem deletes an item. The staff check lives in the access gate;
// this is the storage action only.
func (s *InventoryService) DeleteItem(ctx context.Context, itemID int64) error {
	if err := s.store.DeleteInventoryItem(ctx, itemID); err != nil {
		return err
	}
	s.logger.Info("Inventory item deleted", zap.Int64("item_id", itemID))
	return nil
}

// DashboardSummary is the paid dashboard payload
type DashboardSummary struct {
	ItemCount    int           `json:"item_count"`
	StockValue   int64         `json:"stock_value"`
	ReceiptCount int           `json:"receipt_count"`
	RecentSales  []models.Sale `json:"recent_sales"`
}

// Dashboard assembles the owner's dashboard summary
func (s *InventoryService) Dashboard(ctx context.Context, ownerID int64) (*DashboardSummary, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Dashboard")
	defer span.End()

	count, err := s.store.CountInventoryItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	value, err := s.store.StockValueByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stock value: %w", err)
	}

	receipts, err := s.store.CountReceiptsByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count receipts: %w", err)
	}

	recent, err := s.store.GetRecentSalesByOwner(ctx, ownerID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sales: %w", err)
	}
	if recent == nil {
		recent = []models.Sale{}
	}

	return &DashboardSummary{
		ItemCount:    count,
		StockValue:   value,
		ReceiptCount: receipts,
		RecentSales:  recent,
	}, nil
}

// compile-time check that the real store satisfies the interface
var _ InventoryStore = (*store.Store)(nil)
