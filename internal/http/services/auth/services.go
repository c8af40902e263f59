package auth

import (
	"github.com/dropDatabas3/mentorlink/internal/http/services/common"
	jwtx "github.com/dropDatabas3/mentorlink/internal/jwt"
	"github.com/dropDatabas3/mentorlink/internal/metrics"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Store   store.Store
	Issuer  *jwtx.Issuer
	Policy  password.Policy
	Hash    password.Params // zero value = password.Default
	Metrics *metrics.Metrics
	Now     common.Clock
}

// Services agrupa los services del dominio auth.
type Services struct {
	Credentials CredentialService
	Profile     ProfileService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{
		Credentials: NewCredentialService(d),
		Profile:     NewProfileService(d),
	}
}
