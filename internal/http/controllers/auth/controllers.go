// Package auth contiene los controllers de registro, login y cuenta propia.
package auth

import svc "github.com/dropDatabas3/mentorlink/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Password *PasswordController
	Me       *MeController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s.Credentials),
		Login:    NewLoginController(s.Credentials),
		Password: NewPasswordController(s.Credentials),
		Me:       NewMeController(s.Profile),
	}
}
