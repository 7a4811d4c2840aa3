package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

func ptr[T any](v T) *T { return &v }

func updateReq(t *testing.T, body string) transport.UpdateProductRequest {
	t.Helper()
	var req transport.UpdateProductRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestCatalogService_AddAndGet(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	prod, err := s.catalog.AddProduct(ctx, transport.CreateProductRequest{Name: ptr("Widget"), Price: ptr(9.99)})
	require.NoError(t, err)

	got, err := s.catalog.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, transport.ProductResponse{ID: prod.ID, Name: "Widget", Price: 9.99, Description: ""}, *got)

	ev := s.pub.last(t)
	assert.Equal(t, mykafka.TopicProductEvents, ev.Topic)
	assert.Equal(t, "product_created", ev.Event.Type)
	assert.Equal(t, prod.ID, ev.Event.ProductID)
}

func TestCatalogService_AddValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	cases := map[string]transport.CreateProductRequest{
		"missing name":   {Price: ptr(1.0)},
		"missing price":  {Name: ptr("x")},
		"negative price": {Name: ptr("x"), Price: ptr(-0.01)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.catalog.AddProduct(ctx, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	list, err := s.catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCatalogService_GetMissing(t *testing.T) {
	s := newServices(t)

	_, err := s.catalog.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_ListOmitsDescription(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c"} {
		_, err := s.catalog.AddProduct(ctx, transport.CreateProductRequest{Name: ptr(n), Price: ptr(1.0), Description: ptr("desc " + n)})
		require.NoError(t, err)
	}

	list, err := s.catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	raw, err := json.Marshal(list)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "description")
}

func TestCatalogService_UpdatePriceOnly(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	prod, err := s.catalog.AddProduct(ctx, transport.CreateProductRequest{Name: ptr("Widget"), Price: ptr(9.99), Description: ptr("blue")})
	require.NoError(t, err)

	require.NoError(t, s.catalog.UpdateProduct(ctx, prod.ID, updateReq(t, `{"price": 5.0}`)))

	got, err := s.catalog.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 5.0, got.Price)
	assert.Equal(t, "blue", got.Description)
	assert.Equal(t, "product_updated", s.pub.last(t).Event.Type)
}

func TestCatalogService_UpdateNullsAndEmpty(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	prod, err := s.catalog.AddProduct(ctx, transport.CreateProductRequest{Name: ptr("Widget"), Price: ptr(1.0), Description: ptr("blue")})
	require.NoError(t, err)

	require.NoError(t, s.catalog.UpdateProduct(ctx, prod.ID, updateReq(t, `{}`)))
	require.NoError(t, s.catalog.UpdateProduct(ctx, prod.ID, updateReq(t, `{"description": null}`)))

	got, err := s.catalog.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)

	for _, body := range []string{`{"name": null}`, `{"price": null}`, `{"price": -3}`} {
		err := s.catalog.UpdateProduct(ctx, prod.ID, updateReq(t, body))
		assert.ErrorIs(t, err, ErrValidation, body)
	}
}

func TestCatalogService_UpdateMissing(t *testing.T) {
	s := newServices(t)

	err := s.catalog.UpdateProduct(context.Background(), 42, updateReq(t, `{"name": "x"}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Delete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	prod, err := s.catalog.AddProduct(ctx, transport.CreateProductRequest{Name: ptr("Widget"), Price: ptr(1.0)})
	require.NoError(t, err)

	require.NoError(t, s.catalog.DeleteProduct(ctx, prod.ID))
	assert.Equal(t, "product_deleted", s.pub.last(t).Event.Type)

	_, err = s.catalog.GetProduct(ctx, prod.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.catalog.DeleteProduct(ctx, prod.ID), ErrNotFound)
}
