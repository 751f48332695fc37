package entity

import (
	"errors"
	"strings"

	"github.com/deliverymx/user-service/internal/domain/valueobject"
)

// MaxAddresses is the hard cap on addresses a single account may hold.
const MaxAddresses = 5

var (
	ErrAddressLimitReached = errors.New("user cannot have more than 5 addresses")
	ErrDuplicateAddress    = errors.New("address already exists for this user")
	ErrUserAlreadyInactive = errors.New("user is already deactivated")
	ErrUserAlreadyActive   = errors.New("user is already active")
)

// User is the capability surface shared by the closed set of role
// variants (Customer, DeliveryPerson, RestaurantUser). Variants are
// built through their factories only; role-specific behavior lives on
// the concrete type and is reached by explicit variant inspection.
type User interface {
	ID() string
	FirstName() string
	LastName() string
	FullName() string
	Contact() valueobject.ContactInfo
	Credentials() valueobject.Credentials
	Role() Role
	Addresses() []valueobject.Address
	IsActive() bool

	AddAddress(valueobject.Address) error
	RemoveAddress(valueobject.Address) bool
	Deactivate() error
	Activate() error
	VerifyPassword(candidate string) bool
}

// base carries the state and behavior every variant shares. It is only
// ever mutated through its own methods; the aggregate owns its address
// list and embedded value objects exclusively.
type base struct {
	id          string
	firstName   string
	lastName    string
	contact     valueobject.ContactInfo
	credentials valueobject.Credentials
	role        Role
	addresses   []valueobject.Address
	active      bool
}

func newBase(id, firstName, lastName string, contact valueobject.ContactInfo, credentials valueobject.Credentials, role Role) (base, error) {
	if strings.TrimSpace(id) == "" {
		return base{}, errors.New("user id is required")
	}
	if strings.TrimSpace(firstName) == "" {
		return base{}, errors.New("first name is required")
	}
	return base{
		id:          id,
		firstName:   firstName,
		lastName:    lastName,
		contact:     contact,
		credentials: credentials,
		role:        role,
		active:      true,
	}, nil
}

func (u *base) ID() string                              { return u.id }
func (u *base) FirstName() string                       { return u.firstName }
func (u *base) LastName() string                        { return u.lastName }
func (u *base) Contact() valueobject.ContactInfo        { return u.contact }
func (u *base) Credentials() valueobject.Credentials    { return u.credentials }
func (u *base) Role() Role                              { return u.role }
func (u *base) IsActive() bool                          { return u.active }

// FullName returns the first name alone when there is no last name.
func (u *base) FullName() string {
	if u.lastName == "" {
		return u.firstName
	}
	return u.firstName + " " + u.lastName
}

// Addresses returns a copy; callers cannot mutate the owned list.
func (u *base) Addresses() []valueobject.Address {
	out := make([]valueobject.Address, len(u.addresses))
	copy(out, u.addresses)
	return out
}

func (u *base) AddAddress(addr valueobject.Address) error {
	if len(u.addresses) >= MaxAddresses {
		return ErrAddressLimitReached
	}
	for _, existing := range u.addresses {
		if existing.Equal(addr) {
			return ErrDuplicateAddress
		}
	}
	u.addresses = append(u.addresses, addr)
	return nil
}

// RemoveAddress removes the first address equal to addr and reports
// whether anything was removed. Nothing-removed is not a domain error;
// the caller decides what it means.
func (u *base) RemoveAddress(addr valueobject.Address) bool {
	for i, existing := range u.addresses {
		if existing.Equal(addr) {
			u.addresses = append(u.addresses[:i], u.addresses[i+1:]...)
			return true
		}
	}
	return false
}

// Deactivate soft-deletes the account. Deactivating twice is an error:
// it signals a caller bug, not a state to silently absorb.
func (u *base) Deactivate() error {
	if !u.active {
		return ErrUserAlreadyInactive
	}
	u.active = false
	return nil
}

func (u *base) Activate() error {
	if u.active {
		return ErrUserAlreadyActive
	}
	u.active = true
	return nil
}

func (u *base) VerifyPassword(candidate string) bool {
	return u.credentials.VerifyPassword(candidate)
}
