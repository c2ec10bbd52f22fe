package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/budgetplanner/internal/models"
)

const (
	DefaultTokenTTL = 60 * time.Minute
	TokenTypeBearer = "bearer"
)

// Credential is what a successful login hands back to the caller.
type Credential struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AccessClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 access tokens whose subject is the
// user's email. Tokens are not stored anywhere and cannot be revoked before
// they expire.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: secret, ttl: ttl, now: time.Now}
}

func (codec *TokenCodec) Issue(user models.User) (Credential, error) {
	now := codec.now().UTC()
	expiresAt := now.Add(codec.ttl)
	claims := AccessClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(codec.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("sign access token: %w", err)
	}
	return Credential{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

// Parse verifies signature and expiry and returns the claims. Every failure
// is reported as ErrUnauthenticated.
func (codec *TokenCodec) Parse(rawToken string) (*AccessClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrUnauthenticated
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return codec.secret, nil
	}, jwt.WithTimeFunc(codec.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
