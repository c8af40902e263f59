package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/mentorlink/internal/authz"
	"github.com/dropDatabas3/mentorlink/internal/config"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	"github.com/dropDatabas3/mentorlink/internal/http/server"
	"github.com/dropDatabas3/mentorlink/internal/observability/logger"
)

// cli mantiene los flags globales y el App armado en PersistentPreRunE.
type cli struct {
	cfgPath   string
	outFormat string // "json" | "text"
	out       io.Writer

	cfg     *config.Config
	app     *server.App
	cleanup func() error
}

func main() {
	_ = godotenv.Load()

	c := &cli{out: os.Stdout}
	root := newRootCmd(c)
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "mentorctl",
		Short:        "CLI operativo de mentorlink (acceso directo al store)",
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.cleanup != nil {
				return c.cleanup()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", envOr("CONFIG_PATH", ""), "ruta al config.yaml (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&c.outFormat, "out", envOr("MENTORLINK_OUT", "text"), "formato de salida: json|text")

	root.AddCommand(
		newMigrateCmd(c),
		newBootstrapAdminCmd(c),
		newInviteCmd(c),
		newIdentitiesCmd(c),
		newMatchCmd(c),
		newEncryptCmd(c),
	)
	return root
}

// load lee la config y arma el grafo completo. Los comandos lo llaman en RunE.
func (c *cli) load(ctx context.Context, migrate bool) error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return err
	}
	if migrate {
		cfg.Flags.Migrate = true
	}
	// bootstrap no interactivo sólo en el servicio
	cfg.Bootstrap.Enabled = false

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "mentorctl"})

	app, cleanup, err := server.Build(ctx, cfg, server.Options{Version: "cli"})
	if err != nil {
		return err
	}
	c.cfg, c.app, c.cleanup = cfg, app, cleanup
	return nil
}

// actor resuelve el admin que ejecuta la operación por su email.
func (c *cli) actor(ctx context.Context, email string) (authz.Principal, error) {
	if strings.TrimSpace(email) == "" {
		return authz.Principal{}, errors.New("--as es requerido (email del admin)")
	}
	id, err := c.app.Store.Identities().GetByEmail(ctx, types.NormalizeEmail(email))
	if err != nil {
		return authz.Principal{}, fmt.Errorf("admin %q: %w", email, err)
	}
	if id.Role != types.RoleAdmin {
		return authz.Principal{}, fmt.Errorf("%s no es admin", id.Email)
	}
	return authz.Principal{ID: id.ID, Email: id.Email, Role: id.Role}, nil
}

func (c *cli) print(v any, text string) error {
	if c.outFormat == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, string(b))
		return err
	}
	_, err := fmt.Fprintln(c.out, text)
	return err
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
