package application

import (
	"github.com/deliverymx/user-service/internal/domain/entity"
	"github.com/deliverymx/user-service/internal/domain/valueobject"
)

// UserResponse is the externalized account shape. It mirrors the
// aggregate state minus anything secret: the password hash is never
// mapped, on purpose.
type UserResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	LastName  string        `json:"last_name,omitempty"`
	FullName  string        `json:"full_name"`
	Contact   ContactView   `json:"contact"`
	Role      entity.Role   `json:"role"`
	Addresses []AddressView `json:"addresses"`
	IsActive  bool          `json:"is_active"`

	// Exactly one of these is set, matching Role.
	Customer   *CustomerDetails   `json:"customer,omitempty"`
	Delivery   *DeliveryDetails   `json:"delivery,omitempty"`
	Restaurant *RestaurantDetails `json:"restaurant,omitempty"`
}

type ContactView struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type AddressView struct {
	Street         string `json:"street"`
	Number         string `json:"number"`
	Neighborhood   string `json:"neighborhood"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	FullAddress    string `json:"full_address"`
}

type CustomerDetails struct {
	LoyaltyPoints          int    `json:"loyalty_points"`
	PreferredPaymentMethod string `json:"preferred_payment_method,omitempty"`
}

type DeliveryDetails struct {
	VehicleType          string  `json:"vehicle_type,omitempty"`
	LicenseNumber        string  `json:"license_number,omitempty"`
	Rating               float64 `json:"rating"`
	CompletedDeliveries  int     `json:"completed_deliveries"`
	Status               string  `json:"status"`
	ProfilePictureURL    string  `json:"profile_picture_url,omitempty"`
	CanReceiveDeliveries bool    `json:"can_receive_deliveries"`
}

type RestaurantDetails struct {
	RestaurantID   string   `json:"restaurant_id,omitempty"`
	RestaurantRole string   `json:"restaurant_role"`
	Permissions    []string `json:"permissions"`
}

// NewUserResponse assembles the response from aggregate state. Pure and
// stateless; role details are picked by variant inspection.
func NewUserResponse(u entity.User) *UserResponse {
	resp := &UserResponse{
		ID:       u.ID(),
		Name:     u.FirstName(),
		LastName: u.LastName(),
		FullName: u.FullName(),
		Contact: ContactView{
			Email: u.Contact().Email(),
			Phone: u.Contact().Phone(),
		},
		Role:      u.Role(),
		Addresses: newAddressViews(u.Addresses()),
		IsActive:  u.IsActive(),
	}

	switch v := u.(type) {
	case *entity.Customer:
		resp.Customer = &CustomerDetails{
			LoyaltyPoints:          v.LoyaltyPoints(),
			PreferredPaymentMethod: v.PreferredPaymentMethod(),
		}
	case *entity.DeliveryPerson:
		resp.Delivery = &DeliveryDetails{
			VehicleType:          string(v.VehicleType()),
			LicenseNumber:        v.LicenseNumber(),
			Rating:               v.Rating(),
			CompletedDeliveries:  v.CompletedDeliveries(),
			Status:               string(v.Status()),
			ProfilePictureURL:    v.ProfilePictureURL(),
			CanReceiveDeliveries: v.CanReceiveDeliveries(),
		}
	case *entity.RestaurantUser:
		resp.Restaurant = &RestaurantDetails{
			RestaurantID:   v.RestaurantID(),
			RestaurantRole: string(v.RestaurantRole()),
			Permissions:    v.Permissions(),
		}
	}
	return resp
}

func newAddressViews(addrs []valueobject.Address) []AddressView {
	out := make([]AddressView, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, AddressView{
			Street:         a.Street(),
			Number:         a.Number(),
			Neighborhood:   a.Neighborhood(),
			City:           a.City(),
			State:          a.State(),
			ZipCode:        a.ZipCode(),
			Country:        a.Country(),
			AdditionalInfo: a.AdditionalInfo(),
			FullAddress:    a.FullAddress(),
		})
	}
	return out
}
