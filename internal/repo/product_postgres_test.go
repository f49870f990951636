package repo

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-api/internal/db"
	"github.com/rogerio-castellano/inventory-api/internal/models"
)

// Integration tests, skipped unless DATABASE_URL is set.
func newPostgresRepo(t *testing.T) (*PostgresProductRepository, *sql.DB) {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.Migrate(ctx, database, slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err = database.ExecContext(ctx, `TRUNCATE products RESTART IDENTITY`)
	require.NoError(t, err)

	return NewPostgresProductRepository(database), database
}

func TestPostgresProductRepository_CRUD(t *testing.T) {
	r, _ := newPostgresRepo(t)
	ctx := context.Background()

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	created, err := r.Create(ctx, widget())
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "9.99", created.Price.StringFixed(2))

	created.Quantity = 10
	created.Price = decimal.RequireFromString("1.005")
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
	assert.Equal(t, "1.01", updated.Price.StringFixed(2))

	got, found, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, updated.Quantity, got.Quantity)
	assert.True(t, updated.Price.Equal(got.Price))

	require.NoError(t, r.Delete(ctx, created.ID))
	assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrProductNotFound)

	_, found, err = r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostgresProductRepository_UpdateMissing(t *testing.T) {
	r, _ := newPostgresRepo(t)

	_, err := r.Update(context.Background(), models.Product{ID: 999, Name: "Ghost", Price: decimal.Zero})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
