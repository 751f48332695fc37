package valueobject

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// National 10-digit number, optionally prefixed with the +52 country code.
	phonePattern = regexp.MustCompile(`^(\+52)?[1-9]\d{9}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// ContactInfo holds a validated email/phone pair. Compared by value.
type ContactInfo struct {
	email string
	phone string
}

func NewContactInfo(email, phone string) (ContactInfo, error) {
	if !emailPattern.MatchString(email) {
		return ContactInfo{}, invalid("email", "invalid email format")
	}
	if !phonePattern.MatchString(phoneSeparators.Replace(phone)) {
		return ContactInfo{}, invalid("phone", "invalid phone number")
	}
	return ContactInfo{email: email, phone: phone}, nil
}

func (c ContactInfo) Email() string { return c.email }
func (c ContactInfo) Phone() string { return c.phone }

// FormattedPhone returns the phone grouped as "+52 XXX XXX XXXX" or
// "XXX XXX XXXX" depending on whether the country code is present.
func (c ContactInfo) FormattedPhone() string {
	clean := phoneSeparators.Replace(c.phone)
	if strings.HasPrefix(clean, "+52") {
		n := clean[3:]
		return "+52 " + n[:3] + " " + n[3:6] + " " + n[6:]
	}
	return clean[:3] + " " + clean[3:6] + " " + clean[6:]
}

func (c ContactInfo) Equal(other ContactInfo) bool {
	return c.email == other.email && c.phone == other.phone
}

// IsValidEmail reports whether s has the local@domain.tld shape the
// domain accepts. Exposed for callers that need to reject a lookup key
// before touching the repository.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
