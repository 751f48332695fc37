package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deliverymx/user-service/internal/domain/valueobject"
)

func testContact(t *testing.T) valueobject.ContactInfo {
	t.Helper()
	c, err := valueobject.NewContactInfo("maria@example.com", "+525512345678")
	require.NoError(t, err)
	return c
}

func testCredentials(t *testing.T) valueobject.Credentials {
	t.Helper()
	c, err := valueobject.CredentialsFromHash("maria.lopez", "$2a$10$notarealhashnotarealhashnotarealhash12")
	require.NoError(t, err)
	return c
}

func testCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer("user-1", "Maria", "Lopez", testContact(t), testCredentials(t))
	require.NoError(t, err)
	return c
}

func numberedAddress(t *testing.T, number string) valueobject.Address {
	t.Helper()
	a, err := valueobject.NewAddress("Av. Reforma", number, "Juárez", "Ciudad de México", "CDMX", "06600", "México", "")
	require.NoError(t, err)
	return a
}

func TestNewCustomerValidation(t *testing.T) {
	_, err := NewCustomer("", "Maria", "Lopez", testContact(t), testCredentials(t))
	assert.Error(t, err)

	_, err = NewCustomer("user-1", "  ", "Lopez", testContact(t), testCredentials(t))
	assert.Error(t, err)
}

func TestUserFullName(t *testing.T) {
	c := testCustomer(t)
	assert.Equal(t, "Maria Lopez", c.FullName())

	solo, err := NewCustomer("user-2", "Madonna", "", testContact(t), testCredentials(t))
	require.NoError(t, err)
	assert.Equal(t, "Madonna", solo.FullName())
}

func TestUserAddAddress(t *testing.T) {
	t.Run("caps the list at five", func(t *testing.T) {
		c := testCustomer(t)
		for i := 0; i < MaxAddresses; i++ {
			require.NoError(t, c.AddAddress(numberedAddress(t, fmt.Sprintf("%d", 100+i))))
		}
		err := c.AddAddress(numberedAddress(t, "999"))
		assert.ErrorIs(t, err, ErrAddressLimitReached)
		assert.Len(t, c.Addresses(), MaxAddresses)
	})

	t.Run("rejects duplicates by value", func(t *testing.T) {
		c := testCustomer(t)
		require.NoError(t, c.AddAddress(numberedAddress(t, "100")))
		err := c.AddAddress(numberedAddress(t, "100"))
		assert.ErrorIs(t, err, ErrDuplicateAddress)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		c := testCustomer(t)
		require.NoError(t, c.AddAddress(numberedAddress(t, "100")))
		got := c.Addresses()
		got[0] = numberedAddress(t, "777")
		assert.Equal(t, "100", c.Addresses()[0].Number())
	})
}

func TestUserRemoveAddress(t *testing.T) {
	c := testCustomer(t)
	require.NoError(t, c.AddAddress(numberedAddress(t, "100")))
	require.NoError(t, c.AddAddress(numberedAddress(t, "200")))

	assert.True(t, c.RemoveAddress(numberedAddress(t, "100")))
	assert.Len(t, c.Addresses(), 1)

	// Removing an address that is not there is not an error.
	assert.False(t, c.RemoveAddress(numberedAddress(t, "100")))
	assert.Len(t, c.Addresses(), 1)
}

func TestUserLifecycle(t *testing.T) {
	c := testCustomer(t)
	assert.True(t, c.IsActive())

	require.NoError(t, c.Deactivate())
	assert.False(t, c.IsActive())

	// Deactivating twice is a caller bug.
	assert.ErrorIs(t, c.Deactivate(), ErrUserAlreadyInactive)

	require.NoError(t, c.Activate())
	assert.True(t, c.IsActive())
	assert.ErrorIs(t, c.Activate(), ErrUserAlreadyActive)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"customer", "delivery_person", "restaurant_user"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}
	_, err := ParseRole("admin")
	assert.Error(t, err)
}
