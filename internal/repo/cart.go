package repo

import (
	"context"

	"github.com/Skotchmaster/shop_api/internal/models"
)

func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// RemoveFirstCartItem deletes the oldest row for (userID, productID) in a
// single statement.
func (r *GormRepo) RemoveFirstCartItem(ctx context.Context, userID, productID uint) error {
	first := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Select("id").
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("id ASC").
		Limit(1)

	res := r.DB.WithContext(ctx).Where("id = (?)", first).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CartView joins the user's cart rows with current product values. Rows whose
// product no longer exists are skipped.
func (r *GormRepo) CartView(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := r.DB.WithContext(ctx).
		Table("cart_item AS ci").
		Select("ci.id AS id, ci.user_id AS user_id, ci.product_id AS product_id, p.name AS product_name, p.price AS product_price").
		Joins("JOIN product AS p ON p.id = ci.product_id").
		Where("ci.user_id = ?", userID).
		Order("ci.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
