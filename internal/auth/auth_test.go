package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/utils"
)

func TestIssueTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("s3cret", "user-1", "admin")
	require.NoError(t, err)

	claims, err := utils.ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = utils.ParseToken("wrong", token)
	assert.Error(t, err)
}

func TestSignupValidation(t *testing.T) {
	ok := SignupRequest{Name: "Ivy", Email: "ivy@example.com", Password: "monstera"}
	require.NoError(t, ok.validate())

	for name, req := range map[string]SignupRequest{
		"no name":        {Email: "ivy@example.com", Password: "monstera"},
		"bad email":      {Name: "Ivy", Email: "ivy", Password: "monstera"},
		"short password": {Name: "Ivy", Email: "ivy@example.com", Password: "abc"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, apperr.Is(req.validate(), apperr.KindValidation))
		})
	}
}
