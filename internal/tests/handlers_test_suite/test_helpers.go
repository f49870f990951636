package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/inventory-api/internal/http"
	handler "github.com/rogerio-castellano/inventory-api/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-api/internal/models"
	"github.com/rogerio-castellano/inventory-api/internal/repo"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestRouter(t *testing.T) (http.Handler, *repo.InMemoryProductRepository) {
	t.Helper()

	productRepo := repo.NewInMemoryProductRepository()
	return routerFor(productRepo), productRepo
}

func routerFor(productRepo repo.ProductRepository) http.Handler {
	return routerWith(productRepo, api.RouterOptions{})
}

func routerWith(productRepo repo.ProductRepository, opts api.RouterOptions) http.Handler {
	opts.Logger = discardLogger
	return api.NewRouter(handler.NewServer(productRepo, discardLogger), opts)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func widgetRequest(quantity int) handler.ProductRequest {
	return handler.ProductRequest{Name: strPtr("Widget"), Quantity: intPtr(quantity), Price: handler.NewPrice("9.99")}
}

func doJSON(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/product/insert", p)
}

func updateProduct(r http.Handler, id int, p any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPut, fmt.Sprintf("/product/%d", id), p)
}

func deleteProduct(r http.Handler, id int) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodDelete, fmt.Sprintf("/product/%d", id), nil)
}

func getProduct(r http.Handler, id int) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodGet, fmt.Sprintf("/product/%d", id), nil)
}

func listProducts(r http.Handler) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodGet, "/product/", nil)
}

var errStoreDown = errors.New("connection refused")

// failingRepo fails every call, for exercising 500 responses.
type failingRepo struct{}

func (failingRepo) Create(context.Context, models.Product) (models.Product, error) {
	return models.Product{}, errStoreDown
}

func (failingRepo) GetAll(context.Context) ([]models.Product, error) {
	return nil, errStoreDown
}

func (failingRepo) GetByID(context.Context, int) (models.Product, bool, error) {
	return models.Product{}, false, errStoreDown
}

func (failingRepo) Update(context.Context, models.Product) (models.Product, error) {
	return models.Product{}, errStoreDown
}

func (failingRepo) Delete(context.Context, int) error {
	return errStoreDown
}

// vanishingRepo loses every product between lookup and write.
type vanishingRepo struct {
	*repo.InMemoryProductRepository
}

func (v vanishingRepo) Update(ctx context.Context, p models.Product) (models.Product, error) {
	_ = v.InMemoryProductRepository.Delete(ctx, p.ID)
	return v.InMemoryProductRepository.Update(ctx, p)
}

func (v vanishingRepo) Delete(ctx context.Context, id int) error {
	_ = v.InMemoryProductRepository.Delete(ctx, id)
	return v.InMemoryProductRepository.Delete(ctx, id)
}
