package store

import (
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildReceiptItems(t *testing.T) {
	lines := []models.CartLine{
		{CartItemID: 1, ProductID: 10, ProductName: "Product A", UnitPrice: 10, Quantity: 2},
		{CartItemID: 2, ProductID: 11, ProductName: "Product B", UnitPrice: 5, Quantity: 1},
	}

	items, total := buildReceiptItems(lines)

	assert.Equal(t, int64(25), total)
	assert.Len(t, items, 2)

	assert.Equal(t, "Product A", items[0].Name)
	assert.Equal(t, int64(20), items[0].LineTotal)
	assert.Equal(t, int64(10), items[0].UnitPrice)
	assert.Equal(t, 2, items[0].Quantity)

	assert.Equal(t, "Product B", items[1].Name)
	assert.Equal(t, int64(5), items[1].LineTotal)
}

func TestBuildReceiptItemsEmpty(t *testing.T) {
	items, total := buildReceiptItems(nil)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
