package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

func (User) TableName() string {
	return "user"
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Description string  `gorm:"not null;default:''"      json:"description"`
}

func (Product) TableName() string {
	return "product"
}

// CartItem is one unit of a product in a user's cart. No foreign keys are
// declared, deleting a product leaves its cart rows in place.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint `gorm:"index;not null"           json:"user_id"`
	ProductID uint `gorm:"index;not null"           json:"product_id"`
}

func (CartItem) TableName() string {
	return "cart_item"
}

// CartLine is a cart item joined with the current product values.
type CartLine struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
}

type Session struct {
	ID        string `gorm:"primaryKey;size:36"   json:"id"`
	UserID    uint   `gorm:"index;not null"       json:"user_id"`
	TokenHash string `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"default:false"        json:"revoked"`
}

func (Session) TableName() string {
	return "session"
}

// ProductPatch holds the product columns an update will write. Nil fields
// are left untouched.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil
}

func (p ProductPatch) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	return cols
}

func All() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Session{}}
}
