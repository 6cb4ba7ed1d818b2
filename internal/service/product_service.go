package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ProductStore is the storage surface the product service needs
type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// ProductService handles catalog products
type ProductService struct {
	store  ProductStore
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(st ProductStore) *ProductService {
	return &ProductService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// ProductInput is a proposed product write
type ProductInput struct {
	Name     string `json:"name"`
	Barcode  string `json:"barcode"`
	Size     string `json:"size"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

func validateProductInput(input ProductInput) FieldErrors {
	errs := ValidateItemInput(input.Name, input.Price, input.Quantity)
	if input.Barcode == "" {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs["barcode"] = "Barcode is required."
	}
	return errs
}

// CreateProduct validates and persists a catalog product
func (s *ProductService) CreateProduct(ctx context.Context, ownerID int64, input ProductInput) (*models.Product, error) {
	if errs := validateProductInput(input); errs != nil {
		return nil, errs
	}

	product := &models.Product{
		OwnerID:  ownerID,
		Name:     input.Name,
		Barcode:  input.Barcode,
		Size:     input.Size,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("barcode", product.Barcode))
	return product, nil
}

// UpdateProduct validates and applies an owner-scoped product update
func (s *ProductService) UpdateProduct(ctx context.Context, ownerID, productID int64, input ProductInput) (*models.Product, error) {
	if errs := validateProductInput(input); errs != nil {
		return nil, errs
	}

	product := &models.Product{
		ID:       productID,
		OwnerID:  ownerID,
		Name:     input.Name,
		Barcode:  input.Barcode,
		Size:     input.Size,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts lists the catalog
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProduct retrieves one product
func (s *ProductService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, productID)
}

// LookupBarcode resolves a scanned barcode to its product
func (s *ProductService) LookupBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return s.store.GetProductByBarcode(ctx, barcode)
}

// DeleteProduct deletes a product. Staff enforcement lives in the access gate.
func (s *ProductService) DeleteProduct(ctx context.Context, productID int64) error {
	return s.store.DeleteProduct(ctx, productID)
}

var _ ProductStore = (*store.Store)(nil)
