package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProduct(t *testing.T) {
	name, qty := "Widget", 0

	assert.Nil(t, validateProduct(ProductRequest{Name: &name, Quantity: &qty, Price: NewPrice("0")}))

	errs := validateProduct(ProductRequest{})
	assert.Equal(t, ValidationErrors{
		"name":     {"This field is required."},
		"quantity": {"This field is required."},
		"price":    {"This field is required."},
	}, errs)
}

func TestReadJSON_PriceTypeErrorNamesField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/product/insert", strings.NewReader(`{"name":"a","quantity":1,"price":true}`))
	w := httptest.NewRecorder()

	var body ProductRequest
	err := readJSON(w, req, &body)
	require.Error(t, err)

	assert.Equal(t, ValidationErrors{"price": {"A valid number is required."}}, decodeErrors(err))
}

func TestReadJSON_TooLarge(t *testing.T) {
	payload := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/product/insert", strings.NewReader(payload))
	w := httptest.NewRecorder()

	var body ProductRequest
	err := readJSON(w, req, &body)
	require.Error(t, err)

	errs := decodeErrors(err)
	require.Len(t, errs[nonFieldErrorsKey], 1)
	assert.Contains(t, errs[nonFieldErrorsKey][0], "must not be larger than")
}

func TestDecodeErrors_Fallbacks(t *testing.T) {
	errs := decodeErrors(errors.New("boom"))
	assert.Equal(t, []string{"JSON parse error - boom"}, errs[nonFieldErrorsKey])

	errs = decodeErrors(&json.UnmarshalTypeError{Value: "array"})
	assert.Equal(t, []string{"Invalid data. Expected an object, but got array."}, errs[nonFieldErrorsKey])
}

func TestPriceUnmarshal(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`"9.99"`), &p))
	assert.Equal(t, "9.99", p.String())

	require.NoError(t, json.Unmarshal([]byte(`12.5`), &p))
	assert.Equal(t, "12.5", p.String())

	require.NoError(t, json.Unmarshal([]byte(`"99999999.999"`), &p))
	assert.Equal(t, "100000000", p.String())

	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, json.Unmarshal([]byte(`"abc"`), &p), &typeErr)

	for _, raw := range []string{`"1e-10000000"`, `"1e-2147483648"`, `"1e2147483647"`, `"1` + strings.Repeat("0", 40) + `"`} {
		assert.ErrorAs(t, json.Unmarshal([]byte(raw), &p), &typeErr, raw)
	}
}
