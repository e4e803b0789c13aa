package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyName = errors.New("category name is required")

// Category groups products; products reference categories by id.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewCategory validates and constructs a category.
func NewCategory(name, description string) (*Category, error) {
	c := &Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate enforces category invariants.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
