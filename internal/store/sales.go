package store

import (
	"context"
	"database/sql"

	"pos-service/internal/models"
)

// CreateSale inserts a sale record
func (s *Store) CreateSale(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (owner_id, item_id, client_id, quantity_sold, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sold_at`

	return s.db.GetContext(ctx, sale, query,
		sale.OwnerID, sale.ItemID, sale.ClientID, sale.QuantitySold, sale.TotalPrice)
}

// GetSaleByID retrieves a sale by ID
func (s *Store) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSalesByOwner retrieves sales for one owner, newest first
func (s *Store) GetSalesByOwner(ctx context.Context, ownerID int64) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales,
		"SELECT * FROM sales WHERE owner_id = $1 ORDER BY sold_at DESC", ownerID)
	return sales, err
}

// GetRecentSalesByOwner retrieves the most recent sales for an owner
func (s *Store) GetRecentSalesByOwner(ctx context.Context, ownerID int64, limit int) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales,
		"SELECT * FROM sales WHERE owner_id = $1 ORDER BY sold_at DESC LIMIT $2", ownerID, limit)
	return sales, err
}

// DeleteSale deletes a sale by ID
func (s *Store) DeleteSale(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateClient inserts a client record
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (owner_id, first_name, last_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, client, query,
		client.OwnerID, client.FirstName, client.LastName)
}

// GetClientByID retrieves a client by ID
func (s *Store) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClientsByOwner retrieves all clients belonging to an owner
func (s *Store) GetClientsByOwner(ctx context.Context, ownerID int64) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.SelectContext(ctx, &clients,
		"SELECT * FROM clients WHERE owner_id = $1 ORDER BY id", ownerID)
	return clients, err
}
