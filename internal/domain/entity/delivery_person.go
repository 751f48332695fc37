package entity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/deliverymx/user-service/internal/domain/valueobject"
)

type VehicleType string

const (
	VehicleBicycle    VehicleType = "bicycle"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
)

func ParseVehicleType(s string) (VehicleType, error) {
	switch VehicleType(s) {
	case VehicleBicycle, VehicleMotorcycle, VehicleCar:
		return VehicleType(s), nil
	}
	return "", fmt.Errorf("unknown vehicle type %q", s)
}

type DeliveryStatus string

const (
	DeliveryAvailable DeliveryStatus = "available"
	DeliveryBusy      DeliveryStatus = "busy"
	DeliveryOffline   DeliveryStatus = "offline"
)

var (
	ErrLicenseRequired       = errors.New("license number is required")
	ErrRatingOutOfRange      = errors.New("rating must be between 1 and 5")
	ErrInactiveDeliveryStaff = errors.New("delivery staff must be active to change status")
)

// DeliveryPerson delivers orders. Starts offline with no vehicle on file.
type DeliveryPerson struct {
	base
	vehicleType         VehicleType
	licenseNumber       string
	rating              float64
	completedDeliveries int
	status              DeliveryStatus
	profilePictureURL   string
}

func NewDeliveryPerson(id, firstName, lastName string, contact valueobject.ContactInfo, credentials valueobject.Credentials) (*DeliveryPerson, error) {
	b, err := newBase(id, firstName, lastName, contact, credentials, RoleDeliveryPerson)
	if err != nil {
		return nil, err
	}
	return &DeliveryPerson{base: b, status: DeliveryOffline}, nil
}

func (d *DeliveryPerson) SetVehicleInformation(vehicle VehicleType, licenseNumber string) error {
	if _, err := ParseVehicleType(string(vehicle)); err != nil {
		return err
	}
	if strings.TrimSpace(licenseNumber) == "" {
		return ErrLicenseRequired
	}
	d.vehicleType = vehicle
	d.licenseNumber = licenseNumber
	return nil
}

func (d *DeliveryPerson) UpdateStatus(status DeliveryStatus) error {
	if !d.active {
		return ErrInactiveDeliveryStaff
	}
	d.status = status
	return nil
}

// CompleteDelivery records a finished delivery and folds the new rating
// into the running average, rounded to two decimals.
func (d *DeliveryPerson) CompleteDelivery(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrRatingOutOfRange
	}
	d.completedDeliveries++
	total := d.rating*float64(d.completedDeliveries-1) + float64(rating)
	d.rating = math.Round(total/float64(d.completedDeliveries)*100) / 100
	return nil
}

func (d *DeliveryPerson) SetProfilePicture(url string) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("profile picture URL cannot be empty")
	}
	d.profilePictureURL = url
	return nil
}

// CanReceiveDeliveries reports whether the staff member is dispatchable:
// active, vehicle on file, and currently available.
func (d *DeliveryPerson) CanReceiveDeliveries() bool {
	return d.active && d.vehicleType != "" && d.licenseNumber != "" && d.status == DeliveryAvailable
}

// RestoreDeliveryStats reinstates persisted rating figures when the
// aggregate is loaded from storage.
func (d *DeliveryPerson) RestoreDeliveryStats(rating float64, completedDeliveries int) {
	d.rating = rating
	d.completedDeliveries = completedDeliveries
}

func (d *DeliveryPerson) VehicleType() VehicleType   { return d.vehicleType }
func (d *DeliveryPerson) LicenseNumber() string      { return d.licenseNumber }
func (d *DeliveryPerson) Rating() float64            { return d.rating }
func (d *DeliveryPerson) CompletedDeliveries() int   { return d.completedDeliveries }
func (d *DeliveryPerson) Status() DeliveryStatus     { return d.status }
func (d *DeliveryPerson) ProfilePictureURL() string  { return d.profilePictureURL }

var _ User = (*DeliveryPerson)(nil)
