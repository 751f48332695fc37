package entity

import (
	"errors"
	"strings"

	"github.com/deliverymx/user-service/internal/domain/valueobject"
)

var (
	ErrNegativeLoyaltyPoints     = errors.New("loyalty points cannot be negative")
	ErrInsufficientLoyaltyPoints = errors.New("not enough loyalty points")
)

// Customer orders from restaurants and accumulates loyalty points.
type Customer struct {
	base
	loyaltyPoints          int
	preferredPaymentMethod string
}

func NewCustomer(id, firstName, lastName string, contact valueobject.ContactInfo, credentials valueobject.Credentials) (*Customer, error) {
	b, err := newBase(id, firstName, lastName, contact, credentials, RoleCustomer)
	if err != nil {
		return nil, err
	}
	return &Customer{base: b}, nil
}

func (c *Customer) EarnLoyaltyPoints(points int) error {
	if points < 0 {
		return ErrNegativeLoyaltyPoints
	}
	c.loyaltyPoints += points
	return nil
}

func (c *Customer) RedeemLoyaltyPoints(points int) error {
	if points < 0 {
		return ErrNegativeLoyaltyPoints
	}
	if points > c.loyaltyPoints {
		return ErrInsufficientLoyaltyPoints
	}
	c.loyaltyPoints -= points
	return nil
}

func (c *Customer) SetPreferredPaymentMethod(method string) error {
	if strings.TrimSpace(method) == "" {
		return errors.New("preferred payment method cannot be empty")
	}
	c.preferredPaymentMethod = method
	return nil
}

// PrimaryAddress returns the first address, or false when there is none.
func (c *Customer) PrimaryAddress() (valueobject.Address, bool) {
	if len(c.addresses) == 0 {
		return valueobject.Address{}, false
	}
	return c.addresses[0], true
}

func (c *Customer) LoyaltyPoints() int                 { return c.loyaltyPoints }
func (c *Customer) PreferredPaymentMethod() string     { return c.preferredPaymentMethod }

var _ User = (*Customer)(nil)
