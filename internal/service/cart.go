package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

type CartStore interface {
	AddCartItem(ctx context.Context, item *models.CartItem) error
	RemoveFirstCartItem(ctx context.Context, userID, productID uint) error
	CartView(ctx context.Context, userID uint) ([]models.CartLine, error)
	ClearCart(ctx context.Context, userID uint) (int64, error)
}

type UserLookup interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

type CartService struct {
	Repo     CartStore
	Users    UserLookup
	Products ProductLookup
	Events   *Events
}

func userKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// AddToCart adds one unit of productID. A missing user or product is reported
// as ErrCartLookup without saying which.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	if _, err := s.Users.UserByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrCartLookup)
		}
		return nil, err
	}
	if _, err := s.Products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrCartLookup)
		}
		return nil, err
	}

	item := &models.CartItem{UserID: userID, ProductID: productID}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}

	s.Events.emit(ctx, mykafka.TopicCartEvents, userKey(userID), Event{
		Type:      "cart_item_added",
		UserID:    userID,
		ProductID: productID,
	})
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveFirstCartItem(ctx, userID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("product %d not in cart: %w", productID, ErrCartLookup)
		}
		return err
	}

	s.Events.emit(ctx, mykafka.TopicCartEvents, userKey(userID), Event{
		Type:      "cart_item_removed",
		UserID:    userID,
		ProductID: productID,
	})
	return nil
}

func (s *CartService) ViewCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines, err := s.Repo.CartView(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return lines, nil
}

// Checkout clears the cart in one statement. An empty cart is not an error.
func (s *CartService) Checkout(ctx context.Context, userID uint) (int64, error) {
	n, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.Events.emit(ctx, mykafka.TopicCartEvents, userKey(userID), Event{
		Type:    "cart_checked_out",
		UserID:  userID,
		Removed: n,
	})
	return n, nil
}
