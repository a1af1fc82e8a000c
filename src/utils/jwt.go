package utils

import (
	"os"
	"strconv"
	"time"

	"eventsphere/src/types"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT issues the session token carried in the Authorization
// header. Subject is the numeric user id.
func GenerateJWT(name string, userId uint, role types.UserRole) (string, error) {
	claims := types.Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userId)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
