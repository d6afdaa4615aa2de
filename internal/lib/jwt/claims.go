// Package jwt выпускает и проверяет HS256-токены доступа витрины.
package jwt

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// CustomClaims данные пользователя внутри токена. Идентификатор лежит в Subject.
type CustomClaims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity восстанавливает пользователя запроса из claims.
func (c *CustomClaims) Identity() (models.Identity, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{UserID: id, Username: c.Username, Role: c.Role}, nil
}

// Maker создаёт и разбирает токены.
type Maker interface {
	GenerateToken(id models.Identity) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl подписывает токены секретным ключом и выдаёт их на tokenTTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
	issuer    string
}

// NewJWTMaker создаёт MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		issuer:    "storefront",
	}
}
