package domain

import "time"

// CategoryAll is the filter sentinel that matches every category.
const CategoryAll = "all"

type Rating struct {
	Rate  float64 `json:"rate" yaml:"rate"`
	Count int     `json:"count" yaml:"count"`
}

// Product is a catalog record as served by the catalog API. Read-only to the stores.
type Product struct {
	ID          int     `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Price       float64 `json:"price" yaml:"price"`
	Description string  `json:"description" yaml:"description"`
	Category    string  `json:"category" yaml:"category"`
	Image       string  `json:"image" yaml:"image"`
	Rating      Rating  `json:"rating" yaml:"rating"`
}

// CartLineItem is one product's aggregated entry in a cart.
type CartLineItem struct {
	Product
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
	Point      int     `json:"point"`
}

type WishlistEntry struct {
	Product
	AddedAt time.Time `json:"addedAt"`
}

type Totals struct {
	Items  int     `json:"items"`
	Price  float64 `json:"price"`
	Points int     `json:"points"`
}

// Receipt is the outcome of a simulated checkout.
type Receipt struct {
	ID       string         `json:"id"`
	PlacedAt time.Time      `json:"placedAt"`
	Items    []CartLineItem `json:"items"`
	Totals   Totals         `json:"totals"`
}
