package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	// GetByID reports found=false, with a nil error, when no product has the id.
	GetByID(ctx context.Context, id int) (product models.Product, found bool, err error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
}

// ErrProductNotFound is returned by Update and Delete when the product does not exist.
var ErrProductNotFound = errors.New("product not found")
