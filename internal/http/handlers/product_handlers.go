package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	models "github.com/rogerio-castellano/inventory-api/internal/models"
	repo "github.com/rogerio-castellano/inventory-api/internal/repo"
)

// ProductIDParam is the chi URL parameter holding the product primary key.
const ProductIDParam = "pk"

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse
// @Router /product/ [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.productRepo.GetAll(r.Context())
	if err != nil {
		s.internalError(w, r, "could not fetch products", err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = newProductResponse(p)
	}
	s.respond(w, r, http.StatusOK, response)
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory. The id is assigned by the store.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ValidationErrors
// @Failure 500 {object} ErrorResponse
// @Router /product/insert [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := s.decodeProduct(w, r)
	if !ok {
		return
	}

	created, err := s.productRepo.Create(r.Context(), product)
	if err != nil {
		s.internalError(w, r, "could not create product", err)
		return
	}

	s.respond(w, r, http.StatusCreated, newProductResponse(created))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param pk path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 "Not found"
// @Failure 500 {object} ErrorResponse
// @Router /product/{pk} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := s.lookupProduct(w, r)
	if !ok {
		return
	}
	s.respond(w, r, http.StatusOK, newProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Replaces every field except the id.
// @Tags products
// @Accept json
// @Produce json
// @Param pk path int true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ValidationErrors
// @Failure 404 "Not found"
// @Failure 500 {object} ErrorResponse
// @Router /product/{pk} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.lookupProduct(w, r)
	if !ok {
		return
	}

	product, ok := s.decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = existing.ID

	updated, err := s.productRepo.Update(r.Context(), product)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.internalError(w, r, "could not update product", err)
		return
	}

	s.respond(w, r, http.StatusOK, newProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Param pk path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 404 "Not found"
// @Failure 500 {object} ErrorResponse
// @Router /product/{pk} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.lookupProduct(w, r)
	if !ok {
		return
	}

	if err := s.productRepo.Delete(r.Context(), existing.ID); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.internalError(w, r, "could not delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookupProduct resolves the path primary key. When it returns false the
// response (404 or 500) has already been written.
func (s *Server) lookupProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, ProductIDParam))
	if err != nil {
		// The route only matches digits, so this is an id too large to exist.
		w.WriteHeader(http.StatusNotFound)
		return models.Product{}, false
	}

	product, found, err := s.productRepo.GetByID(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "could not fetch product", err)
		return models.Product{}, false
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return models.Product{}, false
	}
	return product, true
}

// decodeProduct reads and validates a ProductRequest. When it returns false a
// 400 with the field errors has already been written.
func (s *Server) decodeProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		s.respond(w, r, http.StatusBadRequest, decodeErrors(err))
		return models.Product{}, false
	}

	if errs := validateProduct(req); len(errs) > 0 {
		s.respond(w, r, http.StatusBadRequest, errs)
		return models.Product{}, false
	}

	return models.Product{
		Name:     strings.TrimSpace(*req.Name),
		Quantity: *req.Quantity,
		Price:    req.Price.Decimal,
	}, true
}
