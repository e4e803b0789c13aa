package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle    = errors.New("product title is required")
	ErrEmptySKU      = errors.New("product SKU is required")
	ErrNegativeStock = errors.New("stock quantity must not be negative")
	ErrInvalidPrice  = errors.New("price must be greater than zero")
)

// Product is the catalog aggregate carrying the stock ledger quantity.
type Product struct {
	ID            int64
	Title         string
	SKU           string
	Description   string
	StockQuantity int
	Price         decimal.Decimal
	CategoryIDs   []int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct validates and constructs a product.
func NewProduct(title, sku, description string, stock int, price decimal.Decimal, categoryIDs []int64) (*Product, error) {
	p := &Product{
		Title:         strings.TrimSpace(title),
		SKU:           strings.TrimSpace(sku),
		Description:   strings.TrimSpace(description),
		StockQuantity: stock,
		Price:         price,
		CategoryIDs:   categoryIDs,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces catalog invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(p.SKU) == "" {
		return ErrEmptySKU
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
