package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

func widget() models.Product {
	return models.Product{Name: "Widget", Quantity: 5, Price: decimal.RequireFromString("9.99")}
}

func TestInMemoryProductRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()

	first, err := r.Create(ctx, widget())
	require.NoError(t, err)
	second, err := r.Create(ctx, widget())
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	r.Clear()
	third, err := r.Create(ctx, widget())
	require.NoError(t, err)
	assert.Equal(t, 3, third.ID)
}

func TestInMemoryProductRepository_GetAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	_, err = r.Create(ctx, widget())
	require.NoError(t, err)

	all, err = r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	all[0].Name = "Mutated"

	got, found, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Widget", got.Name)
}

func TestInMemoryProductRepository_GetByIDMissing(t *testing.T) {
	r := NewInMemoryProductRepository()

	_, found, err := r.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryProductRepository_Update(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()
	created, err := r.Create(ctx, widget())
	require.NoError(t, err)

	created.Quantity = 10
	created.Price = decimal.RequireFromString("12.345")
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "12.35", updated.Price.StringFixed(2))

	got, _, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	assert.Equal(t, created.ID, got.ID)

	_, err = r.Update(ctx, models.Product{ID: 42, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemoryProductRepository_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()
	created, err := r.Create(ctx, widget())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))
	assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrProductNotFound)

	_, found, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)
}
