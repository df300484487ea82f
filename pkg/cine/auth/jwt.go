// Package auth issues and checks the tokens stream viewers present.
package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/tauraamui/xerror"
)

const (
	audience = "cinefilter"
	// AllStreams grants a token holder access to every stream.
	AllStreams = "*"
)

var TokenLifetime = 15 * time.Minute

type viewerClaims struct {
	Stream string `json:"stream"`
	jwt.StandardClaims
}

var TimeNow = func() time.Time {
	return time.Now()
}

func GenToken(secret, stream string) (string, error) {
	claims := viewerClaims{
		Stream: stream,
		StandardClaims: jwt.StandardClaims{
			Audience:  audience,
			ExpiresAt: TimeNow().UTC().Add(TokenLifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken returns the stream title the token grants access to.
func ValidateToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&viewerClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, xerror.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)

	if err != nil {
		return "", xerror.Errorf("unable to validate token: %w", err)
	}

	return checkClaims(token.Claims)
}

func checkClaims(claims jwt.Claims) (string, error) {
	vc, ok := claims.(*viewerClaims)
	if !ok {
		return "", errors.New("unable to parse claims")
	}

	if !vc.VerifyAudience(audience, true) {
		return "", errors.New("auth token is not for cinefilter")
	}

	if vc.ExpiresAt < TimeNow().UTC().Unix() {
		return "", errors.New("auth token has expired")
	}

	return vc.Stream, nil
}

// Grants reports whether a token scoped to granted may view stream.
func Grants(granted, stream string) bool {
	return granted == AllStreams || granted == stream
}
