package transport

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateProductRequest requires name and price to be present and non-null.
type CreateProductRequest struct {
	Name        *string  `json:"name"        validate:"required"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Description *string  `json:"description"`
}

type UpdateProductRequest struct {
	Name        Optional[string]  `json:"name"`
	Price       Optional[float64] `json:"price"`
	Description Optional[string]  `json:"description"`
}

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// ProductListItem is the list view of a product; description is left out.
type ProductListItem struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
