// Package codes contiene los controllers de emisión y verificación de códigos.
package codes

import svc "github.com/dropDatabas3/mentorlink/internal/http/services/codes"

// Controllers agrupa todos los controllers del dominio codes.
type Controllers struct {
	EmailVerification *EmailVerificationController
	PasswordReset     *PasswordResetController
}

// NewControllers crea el agregador de controllers codes.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		EmailVerification: NewEmailVerificationController(s.Codes),
		PasswordReset:     NewPasswordResetController(s.Codes),
	}
}
