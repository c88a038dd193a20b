package webhook

import (
	"errors"
	"strings"

	"cardfields/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// VerifySignature checks the Authorization header of a callback request and
// returns its claims. Merchants can use it to authenticate callbacks.
func VerifySignature(header, secret string) (*models.WebhookClaims, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, errors.New("missing bearer signature")
	}

	claims := &models.WebhookClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid signature")
	}
	return claims, nil
}
