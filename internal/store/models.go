package store

import "time"

type User struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Category    string  `json:"category" db:"category"`
	Price       float64 `json:"price" db:"price"`
	ImageURL    *string `json:"image_url" db:"image_url"`
}

// ProductInput carries every mutable product column. A nil field is written
// as NULL.
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

// ProductFilter narrows ListProducts. Zero values disable an axis.
type ProductFilter struct {
	Category string
	Terms    []string
}

type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

type NewOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Suggestion is a product bought together with another one.
type Suggestion struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	ImageURL  *string `json:"image_url" db:"image_url"`
	Frequency int64   `json:"frequency" db:"frequency"`
	AvgPrice  float64 `json:"avg_price" db:"avg_price"`
}

// Association is a row of the precomputed pair table, resolved to names.
type Association struct {
	Product1  string `json:"product1" db:"product1"`
	Product2  string `json:"product2" db:"product2"`
	Frequency int64  `json:"frequency" db:"frequency"`
}
