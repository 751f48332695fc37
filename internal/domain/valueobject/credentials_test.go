package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentials(t *testing.T) {
	t.Run("hashes the password", func(t *testing.T) {
		c, err := NewCredentials("maria.lopez", "Str0ng!pass")
		require.NoError(t, err)
		assert.Equal(t, "maria.lopez", c.Username())
		assert.NotEqual(t, "Str0ng!pass", c.PasswordHash())
		assert.NotEmpty(t, c.PasswordHash())
	})

	t.Run("rejects short usernames", func(t *testing.T) {
		_, err := NewCredentials("ab", "Str0ng!pass")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Field)
	})

	t.Run("rejects long usernames", func(t *testing.T) {
		_, err := NewCredentials(strings.Repeat("a", 51), "Str0ng!pass")
		assert.Error(t, err)
	})

	t.Run("rejects usernames with invalid characters", func(t *testing.T) {
		_, err := NewCredentials("maria lopez", "Str0ng!pass")
		assert.Error(t, err)
	})

	t.Run("accepts email-shaped usernames", func(t *testing.T) {
		_, err := NewCredentials("maria@example.com", "Str0ng!pass")
		assert.NoError(t, err)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		cases := map[string]string{
			"too short":  "S0r!t",
			"no upper":   "weakpass1!",
			"no lower":   "WEAKPASS1!",
			"no digit":   "Weakpass!!",
			"no symbol":  "Weakpass11",
			"too long":   "Aa1!" + strings.Repeat("x", 128),
		}
		for name, pw := range cases {
			_, err := NewCredentials("maria.lopez", pw)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, name)
			assert.Equal(t, "password", verr.Field, name)
		}
	})
}

func TestCredentialsFromHash(t *testing.T) {
	original, err := NewCredentials("maria.lopez", "Str0ng!pass")
	require.NoError(t, err)

	restored, err := CredentialsFromHash(original.Username(), original.PasswordHash())
	require.NoError(t, err)
	assert.True(t, restored.VerifyPassword("Str0ng!pass"))
	assert.True(t, original.Equal(restored))

	_, err = CredentialsFromHash("maria.lopez", "  ")
	assert.Error(t, err)
}

func TestNewCredentialsLongPasswords(t *testing.T) {
	// The accepted range runs past bcrypt's 72-byte input limit; every
	// length up to 128 must hash and verify.
	for _, n := range []int{72, 73, 100, 128} {
		password := "Aa1!" + strings.Repeat("x", n-4)
		require.Len(t, password, n)

		c, err := NewCredentials("maria.lopez", password)
		require.NoError(t, err, "length %d", n)
		assert.True(t, c.VerifyPassword(password), "length %d", n)
		assert.False(t, c.VerifyPassword(password+"y"), "length %d", n)
	}
}

func TestCredentialsVerifyPassword(t *testing.T) {
	c, err := NewCredentials("maria.lopez", "Str0ng!pass")
	require.NoError(t, err)

	assert.True(t, c.VerifyPassword("Str0ng!pass"))
	assert.False(t, c.VerifyPassword("wrong-password"))
	assert.False(t, c.VerifyPassword(""))
}
