package utils

import (
	"errors"
	"strconv"
	"time"

	"complyready-backend/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func getJWTSecret() []byte {
	cfg := config.GetConfig()
	if cfg.JWTSecret == "" {
		return []byte("fallback-secret-key-for-development")
	}
	return []byte(cfg.JWTSecret)
}

// GetJWTExpireDuration gets JWT expiration duration from config
func GetJWTExpireDuration() time.Duration {
	cfg := config.GetConfig()
	hours, err := strconv.Atoi(cfg.JWTExpireHours)
	if err != nil || hours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// GenerateJWT issues a signed token for a user. Token issuance normally lives
// with the external auth provider; this is used by the seeder and tests.
func GenerateJWT(userID uuid.UUID, email string) (string, error) {
	expireDuration := GetJWTExpireDuration()

	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

// ValidateJWT parses and validates a bearer token
func ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return getJWTSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
