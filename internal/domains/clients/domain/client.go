package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyEmail   = errors.New("client email is required")
	ErrInvalidEmail = errors.New("client email must contain '@'")
)

// Client is a customer account that can act as the buyer on orders.
type Client struct {
	ID        int64
	Email     string
	Name      string
	Phone     string
	Address   string
	Company   string
	CreatedAt time.Time
}

// NewClient validates and constructs a client.
func NewClient(email, name, phone, address, company string) (*Client, error) {
	c := &Client{
		Email:   strings.TrimSpace(email),
		Name:    strings.TrimSpace(name),
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
		Company: strings.TrimSpace(company),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate enforces client invariants.
func (c *Client) Validate() error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
