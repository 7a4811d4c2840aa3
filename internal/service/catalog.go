package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type ProductStore interface {
	CreateProduct(ctx context.Context, prod *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo   ProductStore
	Events *Events
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func productKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *CatalogService) AddProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == nil {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("price is required: %w", ErrValidation)
	}
	if !validPrice(*req.Price) {
		return nil, fmt.Errorf("price must be non-negative: %w", ErrValidation)
	}

	prod := &models.Product{Name: *req.Name, Price: *req.Price}
	if req.Description != nil {
		prod.Description = *req.Description
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.Events.emit(ctx, mykafka.TopicProductEvents, productKey(prod.ID), Event{
		Type:      "product_created",
		ProductID: prod.ID,
		Name:      prod.Name,
		Price:     &prod.Price,
	})
	return prod, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*transport.ProductResponse, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, productErr(id, err)
	}
	return &transport.ProductResponse{
		ID:          prod.ID,
		Name:        prod.Name,
		Price:       prod.Price,
		Description: prod.Description,
	}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]transport.ProductListItem, error) {
	prods, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ProductListItem, 0, len(prods))
	for _, p := range prods {
		out = append(out, transport.ProductListItem{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return out, nil
}

// UpdateProduct applies the fields present in req. A null description clears
// it, a null name or price is rejected.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.UpdateProductRequest) error {
	var patch models.ProductPatch

	if req.Name.Set {
		if req.Name.Null {
			return fmt.Errorf("name cannot be null: %w", ErrValidation)
		}
		patch.Name = req.Name.Ptr()
	}
	if req.Price.Set {
		if req.Price.Null {
			return fmt.Errorf("price cannot be null: %w", ErrValidation)
		}
		if !validPrice(req.Price.Value) {
			return fmt.Errorf("price must be non-negative: %w", ErrValidation)
		}
		patch.Price = req.Price.Ptr()
	}
	if req.Description.Set {
		desc := ""
		if !req.Description.Null {
			desc = req.Description.Value
		}
		patch.Description = &desc
	}

	prod, err := s.Repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return productErr(id, err)
	}

	s.Events.emit(ctx, mykafka.TopicProductEvents, productKey(id), Event{
		Type:      "product_updated",
		ProductID: id,
		Name:      prod.Name,
		Price:     &prod.Price,
	})
	return nil
}

// DeleteProduct removes the product row only. Cart rows that reference it stay.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return productErr(id, err)
	}

	s.Events.emit(ctx, mykafka.TopicProductEvents, productKey(id), Event{
		Type:      "product_deleted",
		ProductID: id,
	})
	return nil
}

func productErr(id uint, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return err
}
