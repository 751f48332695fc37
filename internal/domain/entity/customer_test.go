package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerLoyaltyPoints(t *testing.T) {
	c := testCustomer(t)
	assert.Equal(t, 0, c.LoyaltyPoints())

	require.NoError(t, c.EarnLoyaltyPoints(120))
	require.NoError(t, c.EarnLoyaltyPoints(30))
	assert.Equal(t, 150, c.LoyaltyPoints())

	assert.ErrorIs(t, c.EarnLoyaltyPoints(-1), ErrNegativeLoyaltyPoints)

	require.NoError(t, c.RedeemLoyaltyPoints(50))
	assert.Equal(t, 100, c.LoyaltyPoints())

	assert.ErrorIs(t, c.RedeemLoyaltyPoints(101), ErrInsufficientLoyaltyPoints)
	assert.ErrorIs(t, c.RedeemLoyaltyPoints(-5), ErrNegativeLoyaltyPoints)
	assert.Equal(t, 100, c.LoyaltyPoints())
}

func TestCustomerPreferredPaymentMethod(t *testing.T) {
	c := testCustomer(t)
	assert.Error(t, c.SetPreferredPaymentMethod("  "))

	require.NoError(t, c.SetPreferredPaymentMethod("credit_card"))
	assert.Equal(t, "credit_card", c.PreferredPaymentMethod())
}

func TestCustomerPrimaryAddress(t *testing.T) {
	c := testCustomer(t)
	_, ok := c.PrimaryAddress()
	assert.False(t, ok)

	require.NoError(t, c.AddAddress(numberedAddress(t, "100")))
	require.NoError(t, c.AddAddress(numberedAddress(t, "200")))

	primary, ok := c.PrimaryAddress()
	require.True(t, ok)
	assert.Equal(t, "100", primary.Number())
}
