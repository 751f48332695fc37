package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRestaurantUser(t *testing.T) *RestaurantUser {
	t.Helper()
	r, err := NewRestaurantUser("user-1", "Sofia", "Hernandez", testContact(t), testCredentials(t))
	require.NoError(t, err)
	return r
}

func TestRestaurantUserAssignToRestaurant(t *testing.T) {
	r := testRestaurantUser(t)
	assert.Equal(t, RestaurantStaff, r.RestaurantRole())

	assert.Error(t, r.AssignToRestaurant("  ", RestaurantOwner))
	assert.Error(t, r.AssignToRestaurant("rest-1", "janitor"))

	require.NoError(t, r.AssignToRestaurant("rest-1", RestaurantOwner))
	assert.Equal(t, "rest-1", r.RestaurantID())
	assert.Equal(t, RestaurantOwner, r.RestaurantRole())
	assert.True(t, r.HasPermission("manage_staff"))
	assert.True(t, r.HasPermission("manage_settings"))
}

func TestRestaurantUserUpdateRestaurantRole(t *testing.T) {
	r := testRestaurantUser(t)
	assert.ErrorIs(t, r.UpdateRestaurantRole(RestaurantManager), ErrNotAssignedToRestaurant)

	require.NoError(t, r.AssignToRestaurant("rest-1", RestaurantOwner))
	require.NoError(t, r.UpdateRestaurantRole(RestaurantManager))

	// Role change resets permissions to the new role's defaults.
	assert.True(t, r.HasPermission("manage_menu"))
	assert.False(t, r.HasPermission("manage_staff"))
}

func TestRestaurantUserPermissions(t *testing.T) {
	r := testRestaurantUser(t)
	require.NoError(t, r.AssignToRestaurant("rest-1", RestaurantStaff))
	assert.True(t, r.HasPermission("view_orders"))

	assert.Error(t, r.AddPermission("  "))
	require.NoError(t, r.AddPermission("manage_menu"))
	assert.True(t, r.HasPermission("manage_menu"))

	// Adding twice keeps a single entry.
	require.NoError(t, r.AddPermission("manage_menu"))
	count := 0
	for _, p := range r.Permissions() {
		if p == "manage_menu" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	r.RemovePermission("manage_menu")
	assert.False(t, r.HasPermission("manage_menu"))
	r.RemovePermission("not-there")
}

func TestRestaurantUserRestorePermissions(t *testing.T) {
	r := testRestaurantUser(t)
	require.NoError(t, r.AssignToRestaurant("rest-1", RestaurantOwner))

	r.RestorePermissions([]string{"view_analytics"})
	assert.Equal(t, []string{"view_analytics"}, r.Permissions())
	assert.False(t, r.HasPermission("manage_staff"))
}

func TestPermissionsReturnsCopy(t *testing.T) {
	r := testRestaurantUser(t)
	require.NoError(t, r.AssignToRestaurant("rest-1", RestaurantStaff))

	perms := r.Permissions()
	perms[0] = "hijacked"
	assert.False(t, r.HasPermission("hijacked"))
}
