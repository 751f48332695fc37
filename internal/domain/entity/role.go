package entity

import "fmt"

// Role identifies which variant of the user aggregate an account is.
// Bound at creation through the matching factory; never changes afterwards.
type Role string

const (
	RoleCustomer       Role = "customer"
	RoleDeliveryPerson Role = "delivery_person"
	RoleRestaurantUser Role = "restaurant_user"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleDeliveryPerson, RoleRestaurantUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown user role %q", s)
}
