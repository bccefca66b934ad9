// Package auth turns the bearer credential of a handshake into a user id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkeye/Sketch/internal/domain"
)

//go:generate mockgen -source=auth.go -destination=../mocks/verifier.go -package=mocks

var ErrAuthFailure = errors.New("authentication failed")

type Verifier interface {
	Verify(ctx context.Context, credential string) (domain.UserID, error)
}

type claims struct {
	UserID any `json:"userId"`
	jwt.RegisteredClaims
}

// JWTVerifier accepts HS256 tokens carrying a userId claim, falling back to sub.
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

func (v *JWTVerifier) Verify(_ context.Context, credential string) (domain.UserID, error) {
	credential = strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))
	if credential == "" {
		return "", fmt.Errorf("%w: missing credential", ErrAuthFailure)
	}

	var c claims
	_, err := v.parser.ParseWithClaims(credential, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}

	uid := domain.UserID(claimString(c.UserID))
	if uid == "" {
		uid = domain.UserID(c.Subject)
	}
	if err := uid.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	return uid, nil
}

// claimString accepts numeric ids as well as strings.
func claimString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
