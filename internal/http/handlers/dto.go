package handlers

import (
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

// ProductRequest is the body accepted by insert and update. Pointer fields
// let validation tell an absent field from a zero value. A body "id" is ignored.
type ProductRequest struct {
	Name     *string `json:"name" validate:"required,notblank,max=255" example:"Widget"`
	Quantity *int    `json:"quantity" validate:"required,gte=0,lte=2147483647" example:"5"`
	Price    *Price  `json:"price" validate:"required,gte=0,lt=100000000" swaggertype:"string" example:"9.99"`
}

type ProductResponse struct {
	Id       int    `json:"id" example:"1"`
	Name     string `json:"name" example:"Widget"`
	Quantity int    `json:"quantity" example:"5"`
	Price    string `json:"price" example:"9.99"`
}

// ValidationErrors maps a field name to the problems found with it.
type ValidationErrors map[string][]string

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Price accepts a JSON number or a numeric string and holds it rounded to
// models.PricePlaces. The decoder fills in the field path of the returned
// type error.
type Price struct {
	decimal.Decimal
}

// Bounds on a parsed price before it is rounded. Rescaling a decimal costs
// time proportional to its exponent, so anything far outside NUMERIC(10,2)
// is refused as malformed.
const (
	maxPriceExponent = 20
	maxPriceDigits   = 30
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

func (p *Price) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil || !priceInBounds(d) {
		return &json.UnmarshalTypeError{Value: string(data), Type: decimalType}
	}
	p.Decimal = d.Round(models.PricePlaces)
	return nil
}

func priceInBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxPriceExponent && exp <= maxPriceExponent && d.NumDigits() <= maxPriceDigits
}

func NewPrice(s string) *Price {
	return &Price{decimal.RequireFromString(s).Round(models.PricePlaces)}
}

func newProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:       p.ID,
		Name:     p.Name,
		Quantity: p.Quantity,
		Price:    p.Price.StringFixed(models.PricePlaces),
	}
}
