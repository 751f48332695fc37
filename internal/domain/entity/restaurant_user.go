package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deliverymx/user-service/internal/domain/valueobject"
)

type RestaurantRole string

const (
	RestaurantOwner   RestaurantRole = "owner"
	RestaurantManager RestaurantRole = "manager"
	RestaurantStaff   RestaurantRole = "staff"
)

func ParseRestaurantRole(s string) (RestaurantRole, error) {
	switch RestaurantRole(s) {
	case RestaurantOwner, RestaurantManager, RestaurantStaff:
		return RestaurantRole(s), nil
	}
	return "", fmt.Errorf("unknown restaurant role %q", s)
}

var ErrNotAssignedToRestaurant = errors.New("user is not assigned to a restaurant")

// RestaurantUser works for a restaurant. Permissions default from the
// restaurant role on assignment and can be adjusted individually.
type RestaurantUser struct {
	base
	restaurantID   string
	restaurantRole RestaurantRole
	permissions    []string
}

func NewRestaurantUser(id, firstName, lastName string, contact valueobject.ContactInfo, credentials valueobject.Credentials) (*RestaurantUser, error) {
	b, err := newBase(id, firstName, lastName, contact, credentials, RoleRestaurantUser)
	if err != nil {
		return nil, err
	}
	return &RestaurantUser{base: b, restaurantRole: RestaurantStaff}, nil
}

func (r *RestaurantUser) AssignToRestaurant(restaurantID string, role RestaurantRole) error {
	if strings.TrimSpace(restaurantID) == "" {
		return errors.New("restaurant id is required")
	}
	if _, err := ParseRestaurantRole(string(role)); err != nil {
		return err
	}
	r.restaurantID = restaurantID
	r.restaurantRole = role
	r.permissions = defaultPermissions(role)
	return nil
}

func (r *RestaurantUser) UpdateRestaurantRole(role RestaurantRole) error {
	if r.restaurantID == "" {
		return ErrNotAssignedToRestaurant
	}
	if _, err := ParseRestaurantRole(string(role)); err != nil {
		return err
	}
	r.restaurantRole = role
	r.permissions = defaultPermissions(role)
	return nil
}

func (r *RestaurantUser) AddPermission(permission string) error {
	if strings.TrimSpace(permission) == "" {
		return errors.New("permission cannot be empty")
	}
	if !r.HasPermission(permission) {
		r.permissions = append(r.permissions, permission)
	}
	return nil
}

func (r *RestaurantUser) RemovePermission(permission string) {
	for i, p := range r.permissions {
		if p == permission {
			r.permissions = append(r.permissions[:i], r.permissions[i+1:]...)
			return
		}
	}
}

func (r *RestaurantUser) HasPermission(permission string) bool {
	for _, p := range r.permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// RestorePermissions reinstates a persisted permission set, overriding
// the role defaults applied during assignment.
func (r *RestaurantUser) RestorePermissions(permissions []string) {
	r.permissions = append([]string(nil), permissions...)
}

func defaultPermissions(role RestaurantRole) []string {
	switch role {
	case RestaurantOwner:
		return []string{"manage_restaurant", "manage_menu", "manage_orders", "manage_staff", "view_analytics", "manage_settings"}
	case RestaurantManager:
		return []string{"manage_menu", "manage_orders", "view_analytics"}
	default:
		return []string{"view_orders", "update_order_status"}
	}
}

func (r *RestaurantUser) RestaurantID() string            { return r.restaurantID }
func (r *RestaurantUser) RestaurantRole() RestaurantRole  { return r.restaurantRole }

// Permissions returns a copy of the permission set.
func (r *RestaurantUser) Permissions() []string {
	return append([]string(nil), r.permissions...)
}

var _ User = (*RestaurantUser)(nil)
