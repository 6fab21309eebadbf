package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/ftpd/pkg/auth"
	"github.com/marmos91/ftpd/pkg/config"
)

func TestBuildAuthenticatorDefault(t *testing.T) {
	a := BuildAuthenticator(&config.AuthConfig{Username: "admin"})
	assert.True(t, a.Authenticate("admin", "password"))
}

func TestBuildAuthenticatorPlain(t *testing.T) {
	a := BuildAuthenticator(&config.AuthConfig{Username: "alice", Password: "s3cret"})
	assert.True(t, a.Authenticate("alice", "s3cret"))
	assert.False(t, a.Authenticate("alice", "password"))
}

func TestBuildAuthenticatorHashWins(t *testing.T) {
	hash, err := auth.HashPassword("fromhash")
	require.NoError(t, err)

	a := BuildAuthenticator(&config.AuthConfig{
		Username:     "alice",
		Password:     "fromplain",
		PasswordHash: hash,
	})
	assert.True(t, a.Authenticate("alice", "fromhash"))
	assert.False(t, a.Authenticate("alice", "fromplain"))
}
