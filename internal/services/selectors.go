package services

import "sixshop/internal/domain"

// Selectors are recomputed on every read; carts are small.

func TotalItems(items []domain.CartLineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func TotalPrice(items []domain.CartLineItem) float64 {
	sum := 0.0
	for _, it := range items {
		sum += it.TotalPrice
	}
	return sum
}

func TotalPoints(items []domain.CartLineItem) int {
	n := 0
	for _, it := range items {
		n += it.Point
	}
	return n
}

// Summarize computes all three totals in one pass.
func Summarize(items []domain.CartLineItem) domain.Totals {
	var t domain.Totals
	for _, it := range items {
		t.Items += it.Quantity
		t.Price += it.TotalPrice
		t.Points += it.Point
	}
	return t
}
