package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemAndView(t *testing.T) {
	st := newFakeStore()
	svc := NewCartService(st)

	st.products[10] = &models.Product{ID: 10, Name: "Product A", Price: 10}
	st.products[11] = &models.Product{ID: 11, Name: "Product B", Price: 5}

	_, err := svc.AddItem(context.Background(), 1, 10, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), 1, 11, 1)
	require.NoError(t, err)

	view, err := svc.View(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(25), view.Total)
	assert.Len(t, view.Items, 2)
}

func TestAddItemBumpsExistingLine(t *testing.T) {
	st := newFakeStore()
	svc := NewCartService(st)

	st.products[10] = &models.Product{ID: 10, Name: "Product A", Price: 10}

	_, err := svc.AddItem(context.Background(), 1, 10, 2)
	require.NoError(t, err)
	item, err := svc.AddItem(context.Background(), 1, 10, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)

	view, err := svc.View(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, int64(50), view.Total)
}

func TestAddItemRejectsBadInput(t *testing.T) {
	st := newFakeStore()
	svc := NewCartService(st)

	_, err := svc.AddItem(context.Background(), 1, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// unknown product
	_, err = svc.AddItem(context.Background(), 1, 999, 1)
	assert.Error(t, err)
}

func TestRemoveItem(t *testing.T) {
	st := newFakeStore()
	svc := NewCartService(st)

	st.products[10] = &models.Product{ID: 10, Name: "Product A", Price: 10}
	item, err := svc.AddItem(context.Background(), 1, 10, 1)
	require.NoError(t, err)

	// removing as another user fails
	err = svc.RemoveItem(context.Background(), 2, item.ID)
	assert.Error(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), 1, item.ID))

	view, err := svc.View(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
