package jwt

import (
	"errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

var (
	ErrTokenInvalid = errors.New("jwt: invalid token")
	ErrTokenExpired = errors.New("jwt: token expired")
)

// Parse valida firma, issuer y ventana temporal, y devuelve el principal.
func (i *Issuer) Parse(raw string) (authz.Principal, error) {
	claims := jwtv5.MapClaims{}
	_, err := jwtv5.ParseWithClaims(raw, claims, i.keyfunc,
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(i.Iss),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(i.now),
	)
	if errors.Is(err, jwtv5.ErrTokenExpired) {
		return authz.Principal{}, ErrTokenExpired
	}
	if err != nil {
		return authz.Principal{}, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role := types.ParseRole(stringClaim(claims, "role"))
	if sub == "" || role == "" {
		return authz.Principal{}, ErrTokenInvalid
	}
	return authz.Principal{ID: sub, Email: email, Role: role}, nil
}

func stringClaim(c jwtv5.MapClaims, key string) string {
	s, _ := c[key].(string)
	return s
}
