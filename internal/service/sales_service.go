package service

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesStore is the storage surface the sales service needs
type SalesStore interface {
	CreateSale(ctx context.Context, sale *models.Sale) error
	GetSaleByID(ctx context.Context, id int64) (*models.Sale, error)
	GetSalesByOwner(ctx context.Context, ownerID int64) ([]models.Sale, error)
	DeleteSale(ctx context.Context, id int64) error
	GetInventoryItemByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientsByOwner(ctx context.Context, ownerID int64) ([]models.Client, error)
}

// SaleEventPublisher publishes sale events
type SaleEventPublisher interface {
	PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error
}

// SalesService records over-the-counter sales and manages clients
type SalesService struct {
	store  SalesStore
	events SaleEventPublisher
	logger *zap.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(st SalesStore, events SaleEventPublisher) *SalesService {
	return &SalesService{
		store:  st,
		events: events,
		logger: util.GetLogger(),
	}
}

// SaleInput is a proposed sale
type SaleInput struct {
	ItemID       int64  `json:"item_id"`
	ClientID     *int64 `json:"client_id,omitempty"`
	QuantitySold int    `json:"quantity_sold"`
}

// RecordSale creates a sale with the total computed server-side from the
// item's current price, so the stored total always equals price x quantity.
func (s *SalesService) RecordSale(ctx context.Context, ownerID int64, input SaleInput) (*models.Sale, error) {
	if input.QuantitySold < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.store.GetInventoryItemByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}

	if input.ClientID != nil {
		client, err := s.store.GetClientByID(ctx, *input.ClientID)
		if err != nil {
			return nil, err
		}
		if client.OwnerID != ownerID {
			return nil, store.ErrNotFound
		}
	}

	sale := &models.Sale{
		OwnerID:      ownerID,
		ItemID:       input.ItemID,
		ClientID:     input.ClientID,
		QuantitySold: input.QuantitySold,
		TotalPrice:   item.Price * int64(input.QuantitySold),
	}

	if err := s.store.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	util.SalesRecordedTotal.Inc()
	s.logger.Info("Sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("owner_id", ownerID),
		zap.Int64("total", sale.TotalPrice))

	event := &models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		SaleID:       sale.ID,
		OwnerID:      ownerID,
		ItemID:       sale.ItemID,
		QuantitySold: sale.QuantitySold,
		TotalPrice:   sale.TotalPrice,
	}
	if err := s.events.PublishSaleRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleRecorded event", zap.Error(err))
	}

	return sale, nil
}

// ListSales lists an owner's sales
func (s *SalesService) ListSales(ctx context.Context, ownerID int64) ([]models.Sale, error) {
	sales, err := s.store.GetSalesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	return sales, nil
}

// GetSale retrieves one sale scoped to the owner
func (s *SalesService) GetSale(ctx context.Context, ownerID, saleID int64) (*models.Sale, error) {
	sale, err := s.store.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return sale, nil
}

// DeleteSale deletes a sale. Staff enforcement lives in the access gate.
func (s *SalesService) DeleteSale(ctx context.Context, saleID int64) error {
	return s.store.DeleteSale(ctx, saleID)
}

// CreateClient adds a customer record for the owner
func (s *SalesService) CreateClient(ctx context.Context, ownerID int64, firstName, lastName string) (*models.Client, error) {
	errs := FieldErrors{}
	if firstName == "" {
		errs["first_name"] = "First name is required."
	}
	if lastName == "" {
		errs["last_name"] = "Last name is required."
	}
	if len(errs) > 0 {
		return nil, errs
	}

	client := &models.Client{
		OwnerID:   ownerID,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// ListClients lists the owner's clients
func (s *SalesService) ListClients(ctx context.Context, ownerID int64) ([]models.Client, error) {
	clients, err := s.store.GetClientsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

var _ SalesStore = (*store.Store)(nil)
