package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeliveryPerson(t *testing.T) *DeliveryPerson {
	t.Helper()
	d, err := NewDeliveryPerson("user-1", "Diego", "Ramirez", testContact(t), testCredentials(t))
	require.NoError(t, err)
	return d
}

func TestDeliveryPersonStartsOffline(t *testing.T) {
	d := testDeliveryPerson(t)
	assert.Equal(t, DeliveryOffline, d.Status())
	assert.False(t, d.CanReceiveDeliveries())
}

func TestDeliveryPersonSetVehicleInformation(t *testing.T) {
	d := testDeliveryPerson(t)

	assert.Error(t, d.SetVehicleInformation("skateboard", "MX-1"))
	assert.ErrorIs(t, d.SetVehicleInformation(VehicleMotorcycle, "  "), ErrLicenseRequired)

	require.NoError(t, d.SetVehicleInformation(VehicleMotorcycle, "MX-9981-22"))
	assert.Equal(t, VehicleMotorcycle, d.VehicleType())
	assert.Equal(t, "MX-9981-22", d.LicenseNumber())
}

func TestDeliveryPersonUpdateStatus(t *testing.T) {
	d := testDeliveryPerson(t)
	require.NoError(t, d.UpdateStatus(DeliveryAvailable))
	assert.Equal(t, DeliveryAvailable, d.Status())

	require.NoError(t, d.Deactivate())
	assert.ErrorIs(t, d.UpdateStatus(DeliveryBusy), ErrInactiveDeliveryStaff)
}

func TestDeliveryPersonCompleteDelivery(t *testing.T) {
	d := testDeliveryPerson(t)

	assert.ErrorIs(t, d.CompleteDelivery(0), ErrRatingOutOfRange)
	assert.ErrorIs(t, d.CompleteDelivery(6), ErrRatingOutOfRange)

	require.NoError(t, d.CompleteDelivery(5))
	assert.Equal(t, 5.0, d.Rating())
	assert.Equal(t, 1, d.CompletedDeliveries())

	require.NoError(t, d.CompleteDelivery(4))
	assert.Equal(t, 4.5, d.Rating())

	require.NoError(t, d.CompleteDelivery(4))
	// (5+4+4)/3 rounded to two decimals
	assert.Equal(t, 4.33, d.Rating())
	assert.Equal(t, 3, d.CompletedDeliveries())
}

func TestDeliveryPersonCanReceiveDeliveries(t *testing.T) {
	d := testDeliveryPerson(t)
	require.NoError(t, d.SetVehicleInformation(VehicleBicycle, "MX-1"))
	assert.False(t, d.CanReceiveDeliveries())

	require.NoError(t, d.UpdateStatus(DeliveryAvailable))
	assert.True(t, d.CanReceiveDeliveries())

	require.NoError(t, d.Deactivate())
	assert.False(t, d.CanReceiveDeliveries())
}

func TestDeliveryPersonProfilePicture(t *testing.T) {
	d := testDeliveryPerson(t)
	assert.Error(t, d.SetProfilePicture(" "))

	require.NoError(t, d.SetProfilePicture("https://storage.googleapis.com/bucket/profiles/user-1/p.png"))
	assert.NotEmpty(t, d.ProfilePictureURL())
}

func TestDeliveryPersonRestoreDeliveryStats(t *testing.T) {
	d := testDeliveryPerson(t)
	d.RestoreDeliveryStats(4.75, 200)
	assert.Equal(t, 4.75, d.Rating())
	assert.Equal(t, 200, d.CompletedDeliveries())
}
