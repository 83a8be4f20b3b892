package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/entity"
)

// TokenIssuer signs and verifies the two JWT families: access tokens
// carry identity claims for request auth, refresh tokens carry only the
// subject id. Both are stateless; revocation is not supported.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (t *TokenIssuer) IssueAccessToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":       user.Id.String(),
		"username": user.Username,
		"email":    user.Email,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(t.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) IssueRefreshToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  user.Id.String(),
		"iat": now.Unix(),
		"exp": now.Add(t.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseSubject verifies the signature and expiry of either token family
// and returns the subject user id from the "id" claim.
func (t *TokenIssuer) ParseSubject(tokenStr string) (uuid.UUID, jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Unauthenticated(apperror.CodeInvalidToken, "Invalid or expired token")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, nil, apperror.Unauthenticated(apperror.CodeInvalidToken, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, nil, apperror.Unauthenticated(apperror.CodeInvalidToken, "Invalid or expired token")
	}

	rawID, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, nil, apperror.Unauthenticated(apperror.CodeInvalidToken, "Invalid or expired token")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, nil, apperror.Unauthenticated(apperror.CodeInvalidToken, "Invalid or expired token")
	}

	return id, claims, nil
}
