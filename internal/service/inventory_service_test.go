package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemValid(t *testing.T) {
	st := newFakeStore()
	svc := NewInventoryService(st)

	item, err := svc.CreateItem(context.Background(), 1, ItemInput{
		Name: "Jacket", Size: "M", Price: 4999, Quantity: 3,
	})
	require.NoError(t, err)

	// persisted verbatim
	assert.Equal(t, "Jacket", item.Name)
	assert.Equal(t, "M", item.Size)
	assert.Equal(t, int64(4999), item.Price)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, int64(1), item.OwnerID)
	assert.NotZero(t, item.ID)
}

func TestCreateItemRejected(t *testing.T) {
	st := newFakeStore()
	svc := NewInventoryService(st)

	tests := []struct {
		name  string
		input ItemInput
		field string
	}{
		{"whitespace name", ItemInput{Name: "   ", Price: 1, Quantity: 1}, "name"},
		{"negative quantity", ItemInput{Name: "x", Price: 1, Quantity: -1}, "quantity"},
		{"negative price", ItemInput{Name: "x", Price: -1, Quantity: 1}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(context.Background(), 1, tt.input)
			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tt.field)
		})
	}

	// nothing was persisted
	assert.Empty(t, st.items)
}

func TestUpdateItemOwnerScoped(t *testing.T) {
	st := newFakeStore()
	svc := NewInventoryService(st)

	item, err := svc.CreateItem(context.Background(), 1, ItemInput{Name: "Hat", Price: 100, Quantity: 2})
	require.NoError(t, err)

	// another owner cannot touch it
	_, err = svc.UpdateItem(context.Background(), 2, item.ID, ItemInput{Name: "Stolen", Price: 1, Quantity: 1})
	assert.Error(t, err)

	// the owner can
	updated, err := svc.UpdateItem(context.Background(), 1, item.ID, ItemInput{Name: "Hat", Price: 150, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(150), updated.Price)
}

func TestListOwnerItems(t *testing.T) {
	st := newFakeStore()
	svc := NewInventoryService(st)

	st.items[1] = &models.InventoryItem{ID: 1, OwnerID: 1, Name: "A", Price: 10, Quantity: 2}
	st.items[2] = &models.InventoryItem{ID: 2, OwnerID: 2, Name: "other", Price: 5, Quantity: 1}

	items, err := svc.ListOwnerItems(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Name)
}

func TestDashboard(t *testing.T) {
	st := newFakeStore()
	svc := NewInventoryService(st)

	st.items[1] = &models.InventoryItem{ID: 1, OwnerID: 1, Name: "A", Price: 10, Quantity: 2}
	st.items[2] = &models.InventoryItem{ID: 2, OwnerID: 1, Name: "B", Price: 5, Quantity: 4}
	st.items[3] = &models.InventoryItem{ID: 3, OwnerID: 2, Name: "other", Price: 100, Quantity: 1}

	summary, err := svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, int64(40), summary.StockValue)
	assert.NotNil(t, summary.RecentSales)
}
