package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-grievance/grievance-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret")
	token, exp, err := tm.GenerateToken("user-1", domain.RoleFaculty)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleFaculty, claims.Role)
}

func TestTokenExpires(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret").WithClock(func() time.Time { return issued })
	token, _, err := tm.GenerateToken("user-1", domain.RoleStudent)
	require.NoError(t, err)

	tm.WithClock(func() time.Time { return issued.Add(TokenTTL - time.Minute) })
	_, err = tm.ParseToken(token)
	require.NoError(t, err)

	tm.WithClock(func() time.Time { return issued.Add(TokenTTL + time.Minute) })
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret")

	other, _, err := NewTokenManager("other").GenerateToken("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, &Claims{
		UserID:           "user-1",
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "user-1",
		Role:   domain.RoleAdmin,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "user-1",
		Role:             "Root",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret":    other,
		"wrong algorithm": hs384,
		"no expiry":       noExpiry,
		"unknown role":    badRole,
		"garbage":         "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tm.ParseToken(token)
			assert.Error(t, err)
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.NoError(t, ComparePassword(hash, "hunter22"))
	assert.Error(t, ComparePassword(hash, "hunter23"))

	hash, err = HashPassword("x", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
