// Package bootstrap crea el primer admin cuando el sistema no tiene ninguno.
package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
	"github.com/dropDatabas3/mentorlink/internal/security/password"
	"github.com/dropDatabas3/mentorlink/internal/store"
)

var (
	// ErrAdminExists: otro proceso creó el admin con ese email entre el
	// conteo y el insert. EnsureAdmin lo trata como "ya había admin".
	ErrAdminExists = errors.New("bootstrap: admin already exists")

	// ErrEmailRegistered: el email pedido pertenece a una identidad que no es
	// admin (student/alumni). No se promueve.
	ErrEmailRegistered = errors.New("bootstrap: email already registered to a non-admin identity")
)

// AdminConfig configura el bootstrap del primer admin.
type AdminConfig struct {
	Store store.Store

	// Credenciales pre-cargadas (config/env). Vacías + SkipPrompt=false => prompt.
	Email      string
	Password   string
	Name       string
	SkipPrompt bool

	Policy       password.Policy
	Hash         password.Params
	DomainSuffix string // "@dominio"; vacío no restringe

	In  io.Reader // default os.Stdin
	Out io.Writer // default os.Stdout
	Now func() time.Time
}

// EnsureAdmin crea un admin si no existe ninguno. created=false si ya había.
func EnsureAdmin(ctx context.Context, cfg AdminConfig) (created bool, err error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Policy == (password.Policy{}) {
		cfg.Policy = password.DefaultPolicy
	}
	if cfg.Hash == (password.Params{}) {
		cfg.Hash = password.Default
	}

	has, err := hasExistingAdmin(ctx, cfg.Store)
	if err != nil {
		return false, fmt.Errorf("bootstrap: check admins: %w", err)
	}
	if has {
		logger.L().Debug("admin detected, skipping bootstrap", logger.Component("bootstrap"))
		return false, nil
	}

	email, secret := cfg.Email, cfg.Password
	if email == "" || secret == "" {
		if cfg.SkipPrompt {
			return false, errors.New("bootstrap: email and password are required when prompt is disabled")
		}
		fmt.Fprintln(cfg.Out, "No admin users found. Let's create the first one.")
		if email, secret, err = promptAdminCredentials(cfg.In, cfg.Out); err != nil {
			return false, fmt.Errorf("bootstrap: prompt: %w", err)
		}
	}

	if err := createAdmin(ctx, cfg, email, secret); err != nil {
		if errors.Is(err, ErrAdminExists) {
			logger.L().Debug("admin created concurrently, skipping bootstrap", logger.Component("bootstrap"))
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// hasExistingAdmin verifica si hay al menos un admin.
func hasExistingAdmin(ctx context.Context, st store.Store) (bool, error) {
	n, err := st.Identities().Count(ctx, repository.IdentityFilter{Role: types.RoleAdmin})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func createAdmin(ctx context.Context, cfg AdminConfig, email, secret string) error {
	email = types.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return errors.New("bootstrap: invalid email format")
	}
	if suffix := strings.ToLower(strings.TrimSpace(cfg.DomainSuffix)); suffix != "" && !strings.HasSuffix(email, suffix) {
		return fmt.Errorf("bootstrap: admin email must end with %s", suffix)
	}
	if ok, reasons := cfg.Policy.Validate(secret); !ok {
		return fmt.Errorf("bootstrap: weak password: %s", strings.Join(reasons, "; "))
	}

	phc, err := password.Hash(cfg.Hash, secret)
	if err != nil {
		return fmt.Errorf("bootstrap: hash password: %w", err)
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "Administrator"
	}
	admin, err := cfg.Store.Identities().Create(ctx, repository.CreateIdentityInput{
		Email:          email,
		Name:           name,
		PasswordHash:   phc,
		Role:           types.RoleAdmin,
		ApprovalStatus: types.ApprovalApproved,
		EmailVerified:  true,
		CreatedAt:      cfg.Now(),
	})
	if repository.IsConflict(err) {
		return conflictReason(ctx, cfg.Store, email)
	}
	if err != nil {
		return fmt.Errorf("bootstrap: create admin: %w", err)
	}

	logger.Audit(ctx).Info("bootstrap admin created",
		logger.UserID(admin.ID),
		logger.Email(admin.Email),
	)
	fmt.Fprintf(cfg.Out, "Admin created: %s (%s)\n", admin.Email, admin.ID)
	return nil
}

// conflictReason distingue un admin creado en paralelo de un email que ya
// usa una cuenta de student/alumni.
func conflictReason(ctx context.Context, st store.Store, email string) error {
	existing, err := st.Identities().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("bootstrap: lookup existing identity: %w", err)
	}
	if existing.Role == types.RoleAdmin {
		return ErrAdminExists
	}
	return fmt.Errorf("%w: %s (%s)", ErrEmailRegistered, email, existing.Role)
}

// promptAdminCredentials pide email y password. El password no se muestra
// si la entrada es una terminal.
func promptAdminCredentials(in io.Reader, out io.Writer) (email, secret string, err error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Admin Email: ")
	if email, err = reader.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return "", "", err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", errors.New("email cannot be empty")
	}

	fmt.Fprint(out, "Admin Password: ")
	if secret, err = readSecret(in, reader); err != nil {
		return "", "", err
	}
	fmt.Fprint(out, "\nConfirm Password: ")
	confirm, err := readSecret(in, reader)
	if err != nil {
		return "", "", err
	}
	fmt.Fprintln(out)

	if secret != confirm {
		return "", "", errors.New("passwords do not match")
	}
	return email, secret, nil
}

func readSecret(in io.Reader, reader *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
