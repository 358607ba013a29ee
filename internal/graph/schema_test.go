package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/order"
	"Storefront/internal/session"
)

func newTestSchema(t *testing.T, carts cart.Registry) graphql.Schema {
	t.Helper()
	products := catalog.NewSeeded()
	if carts == nil {
		carts = cart.NewSharedRegistry(cart.NewStore(products))
	}
	schema, err := NewSchema(&Resolver{
		Catalog: products,
		Carts:   carts,
		Orders:  order.NewService(order.NewMemStore(0), carts, nil),
	})
	require.NoError(t, err)
	return schema
}

func run(t *testing.T, ctx context.Context, schema graphql.Schema, query string, vars map[string]any) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func dataJSON(t *testing.T, res *graphql.Result) string {
	t.Helper()
	require.False(t, res.HasErrors(), "errors: %v", res.Errors)
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	return string(b)
}

func TestProductQueries(t *testing.T) {
	schema := newTestSchema(t, nil)
	ctx := context.Background()

	res := run(t, ctx, schema, `{ product(id: "3") { id name price rating imageUrl } }`, nil)
	assert.JSONEq(t, `{"product":{
		"id":"3","name":"Headphones","price":199.99,"rating":3,
		"imageUrl":"http://127.0.0.1:3000/assets/headphones.jpg"}}`, dataJSON(t, res))

	res = run(t, ctx, schema, `{ product(id: "nope") { id } }`, nil)
	assert.JSONEq(t, `{"product":null}`, dataJSON(t, res))

	res = run(t, ctx, schema, `{ products { id } }`, nil)
	assert.JSONEq(t, `{"products":[{"id":"1"},{"id":"2"},{"id":"3"},{"id":"4"},{"id":"5"},{"id":"6"},{"id":"7"},{"id":"8"}]}`, dataJSON(t, res))
}

func TestCartMutations(t *testing.T) {
	schema := newTestSchema(t, nil)
	ctx := context.Background()

	res := run(t, ctx, schema, `mutation { addToCart(productId: "1", quantity: 2) { productId quantity product { price } } }`, nil)
	assert.JSONEq(t, `{"addToCart":{"productId":"1","quantity":2,"product":{"price":699.99}}}`, dataJSON(t, res))

	res = run(t, ctx, schema, `mutation { addToCart(productId: "3", quantity: 1) { quantity } }`, nil)
	dataJSON(t, res)

	res = run(t, ctx, schema, `{ cart { count total items { productId } } cartCount }`, nil)
	assert.JSONEq(t, `{"cart":{"count":3,"total":1599.97,"items":[{"productId":"1"},{"productId":"3"}]},"cartCount":3}`, dataJSON(t, res))

	res = run(t, ctx, schema, `mutation { clearCart }`, nil)
	assert.JSONEq(t, `{"clearCart":true}`, dataJSON(t, res))

	res = run(t, ctx, schema, `{ cart { count total items { id } } }`, nil)
	assert.JSONEq(t, `{"cart":{"count":0,"total":0,"items":[]}}`, dataJSON(t, res))
}

func TestErrorCodes(t *testing.T) {
	schema := newTestSchema(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"unknown product", `mutation { addToCart(productId: "nope", quantity: 1) { id } }`, codeNotFound},
		{"zero quantity", `mutation { addToCart(productId: "1", quantity: 0) { id } }`, codeBadUserInput},
		{"negative quantity", `mutation { addToCart(productId: "1", quantity: -3) { id } }`, codeBadUserInput},
		{"empty checkout", `mutation { checkout { id } }`, codeBadUserInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, ctx, schema, tt.query, nil)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.code, res.Errors[0].Extensions["code"])
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))

	var ce *codedError
	require.ErrorAs(t, classify(&cart.DanglingItemError{ItemID: "ci_1", ProductID: "x"}), &ce)
	assert.Equal(t, codeInternal, ce.code)
	assert.ErrorIs(t, ce, cart.ErrInvariant)
}

func TestSessionScopedResolvers(t *testing.T) {
	carts, err := cart.NewSessionRegistry(catalog.NewSeeded(), 4, nil)
	require.NoError(t, err)
	schema := newTestSchema(t, carts)

	alice := session.WithID(context.Background(), "s_alice")
	bob := session.WithID(context.Background(), "s_bob")

	dataJSON(t, run(t, alice, schema, `mutation { addToCart(productId: "5", quantity: 1) { id } }`, nil))

	assert.JSONEq(t, `{"cartCount":1}`, dataJSON(t, run(t, alice, schema, `{ cartCount }`, nil)))
	assert.JSONEq(t, `{"cartCount":0}`, dataJSON(t, run(t, bob, schema, `{ cartCount }`, nil)))

	res := run(t, alice, schema, `mutation { checkout { id } }`, nil)
	var placed struct {
		Checkout struct {
			ID string `json:"id"`
		} `json:"checkout"`
	}
	require.NoError(t, json.Unmarshal([]byte(dataJSON(t, res)), &placed))

	q := `query($id: ID!) { order(id: $id) { id count } }`
	vars := map[string]any{"id": placed.Checkout.ID}
	assert.JSONEq(t, `{"order":{"id":"`+placed.Checkout.ID+`","count":1}}`, dataJSON(t, run(t, alice, schema, q, vars)))
	assert.JSONEq(t, `{"order":null}`, dataJSON(t, run(t, bob, schema, q, vars)))
}

func TestHandler(t *testing.T) {
	h := NewHandler(newTestSchema(t, nil), nil)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(httptest.NewRequest(http.MethodPost, "/graphql",
		strings.NewReader(`{"query":"query Count { cartCount }","operationName":"Count","extensions":{}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"cartCount":0}}`, rec.Body.String())

	rec = serve(httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodGet, `/graphql?query=%7B%20cartCount%20%7D`, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodGet, `/graphql?query=mutation%20%7B%20clearCart%20%7D`, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodPut, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ nope }"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}

func TestIsMutation(t *testing.T) {
	assert.True(t, isMutation(`mutation { clearCart }`, ""))
	assert.False(t, isMutation(`{ cartCount }`, ""))
	assert.False(t, isMutation(`query A { cartCount } mutation B { clearCart }`, "A"))
	assert.True(t, isMutation(`query A { cartCount } mutation B { clearCart }`, "B"))
	assert.False(t, isMutation(`{ broken`, ""))
}
