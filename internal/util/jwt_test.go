package util

import (
	"testing"
	"time"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "grace@example.com", Role: model.RoleInstructor}
	user.ID = 42

	token, err := GenerateJWT(user, 7, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, model.RoleInstructor, claims.Role)
	assert.EqualValues(t, 7, claims.ProfileID)
	assert.Equal(t, "grace@example.com", claims.Email)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	user := &model.User{Email: "grace@example.com", Role: model.RoleAdmin}
	user.ID = 1

	token, err := GenerateJWT(user, 0, "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	user := &model.User{Email: "grace@example.com", Role: model.RoleAdmin}
	user.ID = 1

	token, err := GenerateJWT(user, 0, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}
