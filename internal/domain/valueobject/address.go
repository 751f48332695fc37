package valueobject

import (
	"fmt"
	"strings"
)

// Address is a postal address. All required fields must be non-blank.
// Compared by value; AdditionalInfo is free-form and ignored by Equal.
type Address struct {
	street         string
	number         string
	neighborhood   string
	city           string
	state          string
	zipCode        string
	country        string
	additionalInfo string
}

func NewAddress(street, number, neighborhood, city, state, zipCode, country, additionalInfo string) (Address, error) {
	required := []struct {
		field, value string
	}{
		{"street", street},
		{"number", number},
		{"neighborhood", neighborhood},
		{"city", city},
		{"state", state},
		{"zipCode", zipCode},
		{"country", country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return Address{}, invalid(f.field, f.field+" is required")
		}
	}
	return Address{
		street:         street,
		number:         number,
		neighborhood:   neighborhood,
		city:           city,
		state:          state,
		zipCode:        zipCode,
		country:        country,
		additionalInfo: additionalInfo,
	}, nil
}

func (a Address) Street() string         { return a.street }
func (a Address) Number() string         { return a.number }
func (a Address) Neighborhood() string   { return a.neighborhood }
func (a Address) City() string           { return a.city }
func (a Address) State() string          { return a.state }
func (a Address) ZipCode() string        { return a.zipCode }
func (a Address) Country() string        { return a.country }
func (a Address) AdditionalInfo() string { return a.additionalInfo }

// FullAddress renders the address on a single line, with the additional
// info in parentheses when present.
func (a Address) FullAddress() string {
	base := fmt.Sprintf("%s %s, %s, %s, %s %s, %s",
		a.street, a.number, a.neighborhood, a.city, a.state, a.zipCode, a.country)
	if a.additionalInfo != "" {
		return base + " (" + a.additionalInfo + ")"
	}
	return base
}

// Equal compares every required field and ignores additionalInfo, so two
// deliveries to the same door are the same address.
func (a Address) Equal(other Address) bool {
	return a.street == other.street &&
		a.number == other.number &&
		a.neighborhood == other.neighborhood &&
		a.city == other.city &&
		a.state == other.state &&
		a.zipCode == other.zipCode &&
		a.country == other.country
}
