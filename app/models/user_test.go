package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	user := &User{}

	t.Run("set and check password", func(t *testing.T) {
		require.NoError(t, user.SetPassword("hunter22"))
		assert.NotEqual(t, "hunter22", user.Password)
		assert.True(t, user.CheckPassword("hunter22"))
		assert.False(t, user.CheckPassword("wrong"))
	})

	t.Run("empty password rejected", func(t *testing.T) {
		err := (&User{}).SetPassword("")
		assert.Error(t, err)
	})
}

func TestUserSerialization(t *testing.T) {
	user := &User{
		ID:        1,
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      RoleUser,
		CreatedAt: time.Now(),
	}
	require.NoError(t, user.SetPassword("secret123"))

	t.Run("password hash never serialized", func(t *testing.T) {
		data, err := json.Marshal(user)
		require.NoError(t, err)
		assert.NotContains(t, string(data), user.Password)
		assert.NotContains(t, string(data), "password")
	})

	t.Run("public view redacts role and password", func(t *testing.T) {
		pub := user.Public()
		assert.Equal(t, 1, pub.ID)
		assert.Equal(t, "Alice", pub.Name)
		assert.Equal(t, "alice@example.com", pub.Email)

		data, err := json.Marshal(pub)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "role")
	})
}

func TestUserValidate(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		user := &User{Name: "Bob", Email: "bob@example.com"}
		require.NoError(t, user.SetPassword("secret123"))
		user.BeforeCreate()
		assert.NoError(t, user.Validate())
		assert.Equal(t, RoleUser, user.Role)
	})

	t.Run("bad email", func(t *testing.T) {
		user := &User{Name: "Bob", Email: "not-an-email"}
		require.NoError(t, user.SetPassword("secret123"))
		user.BeforeCreate()
		assert.Error(t, user.Validate())
	})
}
