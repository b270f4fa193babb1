package util

import (
	"time"

	"lms_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the resolved role and profile id so no handler has to re-derive
// who the caller is from linked records.
type Claims struct {
	UserID    uint           `json:"user_id"`
	Role      model.UserRole `json:"role"`
	ProfileID uint           `json:"profile_id"`
	Email     string         `json:"email"`
	jwt.RegisteredClaims
}

func GenerateJWT(user *model.User, profileID uint, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		ProfileID: profileID,
		Email:     user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetActorFromContext converts the JWT claims into the explicit actor passed
// to services. Returns false when the request is unauthenticated.
func GetActorFromContext(c *gin.Context) (model.Actor, bool) {
	claims := GetUserFromContext(c)
	if claims == nil {
		return model.Actor{}, false
	}
	return model.Actor{
		UserID:    claims.UserID,
		Role:      claims.Role,
		ProfileID: claims.ProfileID,
	}, true
}
