package password

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashInviteCode hashea un código de invitación de admin con bcrypt.
func HashInviteCode(code string) (string, error) {
	if code == "" {
		return "", errors.New("empty invite code")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyInviteCode compara contra el hash bcrypt si existe; si no, contra
// el código en texto plano (filas legacy) en tiempo constante.
func VerifyInviteCode(code, hash, plain string) bool {
	if hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
	}
	if plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(plain)) == 1
}
