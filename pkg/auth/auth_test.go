package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAuthenticate(t *testing.T) {
	a := NewStatic("admin", "password")

	t.Run("CorrectCredentials", func(t *testing.T) {
		assert.True(t, a.Authenticate("admin", "password"))
	})

	t.Run("WrongPassword", func(t *testing.T) {
		assert.False(t, a.Authenticate("admin", "secret"))
	})

	t.Run("WrongUser", func(t *testing.T) {
		assert.False(t, a.Authenticate("root", "password"))
	})

	t.Run("EmptyCredentials", func(t *testing.T) {
		assert.False(t, a.Authenticate("", ""))
	})
}

func TestDefault(t *testing.T) {
	a := Default()
	assert.True(t, a.Authenticate("admin", "password"))
	assert.False(t, a.Authenticate("admin", "Password"))
}

func TestFuncAdapter(t *testing.T) {
	calls := 0
	a := Func(func(user, password string) bool {
		calls++
		return user == "alice"
	})

	assert.True(t, a.Authenticate("alice", "anything"))
	assert.False(t, a.Authenticate("bob", "anything"))
	assert.Equal(t, 2, calls)
}

func TestStaticHashed(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"))

	a := NewStaticHashed("admin", hash)

	assert.True(t, a.Authenticate("admin", "hunter22"))
	assert.False(t, a.Authenticate("admin", "hunter23"))
	assert.False(t, a.Authenticate("nobody", "hunter22"))
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	assert.False(t, VerifyPassword("password", "not-a-bcrypt-hash"))
}
