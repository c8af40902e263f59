// Package jwt emite y valida los access tokens HS256 de la plataforma.
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/mentorlink/internal/authz"
)

// MinSecretLen es el largo mínimo del secreto HMAC (bytes).
const MinSecretLen = 32

var (
	ErrSecretMissing = errors.New("jwt: signing secret is missing")
	ErrSecretShort   = fmt.Errorf("jwt: signing secret must be at least %d bytes", MinSecretLen)
)

// Issuer firma tokens con un secreto compartido del servidor.
type Issuer struct {
	Iss       string        // "iss"
	AccessTTL time.Duration // TTL del access token (ej: 1h)
	secret    []byte
	now       func() time.Time
}

// NewIssuer valida el secreto y arma el issuer. Un secreto faltante o corto
// es un error de configuración: el proceso no debe arrancar.
func NewIssuer(iss, secret string, ttl time.Duration) (*Issuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretMissing
	}
	if len(secret) < MinSecretLen {
		return nil, ErrSecretShort
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{
		Iss:       iss,
		AccessTTL: ttl,
		secret:    []byte(secret),
		now:       time.Now,
	}, nil
}

// WithClock reemplaza el reloj (tests).
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// IssueAccess emite un access token para el principal.
func (i *Issuer) IssueAccess(p authz.Principal) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss":   i.Iss,
		"sub":   p.ID,
		"email": p.Email,
		"role":  string(p.Role),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *Issuer) keyfunc(t *jwtv5.Token) (any, error) {
	return i.secret, nil
}
