package password

import (
	"strconv"
	"strings"
	"unicode"
)

// SpecialChars es el set aceptado para el requisito de símbolo.
const SpecialChars = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
	// Blacklist opcional de passwords comunes.
	Blacklist *Blacklist
}

// DefaultPolicy: 8 caracteres, una mayúscula y un símbolo del set.
var DefaultPolicy = Policy{MinLength: 8, RequireUpper: true, RequireSymbol: true}

// Validate retorna los motivos por los que s no cumple la política,
// en texto legible para el usuario.
func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "must be at least "+strconv.Itoa(p.MinLength)+" characters long")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case strings.ContainsRune(SpecialChars, r):
			hasS = true
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "must contain at least one uppercase letter")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "must contain at least one lowercase letter")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "must contain at least one digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "must contain at least one special character ("+SpecialChars+")")
	}
	if p.Blacklist.Contains(s) {
		reasons = append(reasons, "is too common")
	}
	return len(reasons) == 0, reasons
}

