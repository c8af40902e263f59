package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/mentorlink/internal/bootstrap"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	admindto "github.com/dropDatabas3/mentorlink/internal/http/dto/admin"
	"github.com/dropDatabas3/mentorlink/internal/http/server"
	"github.com/dropDatabas3/mentorlink/internal/security/secretbox"
)

func newEncryptCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Cifra un secreto de config con SECRETBOX_MASTER_KEY (salida: enc:...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := secretbox.FromEnv()
			if err != nil {
				return err
			}
			sealed, err := box.Encrypt(args[0])
			if err != nil {
				return err
			}
			v := secretbox.Prefix + sealed
			return c.print(map[string]string{"value": v}, v)
		},
	}
}

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			// load con migrate=true ya corre el Migrator
			if err := c.load(cmd.Context(), true); err != nil {
				return err
			}
			return c.print(map[string]any{"ok": true, "store": c.app.Store.Name()}, "migrations OK")
		},
	}
}

func newBootstrapAdminCmd(c *cli) *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Crea el primer admin si no existe ninguno (pide el password por terminal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.load(ctx, false); err != nil {
				return err
			}
			policy, err := server.PolicyFromConfig(c.cfg)
			if err != nil {
				return err
			}
			created, err := bootstrap.EnsureAdmin(ctx, bootstrap.AdminConfig{
				Store:        c.app.Store,
				Email:        email,
				Password:     os.Getenv("MENTORLINK_ADMIN_PASSWORD"),
				Name:         name,
				Policy:       policy,
				DomainSuffix: c.cfg.AdminDomainSuffix(),
				In:           os.Stdin,
				Out:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			if !created {
				return c.print(map[string]any{"created": false}, "admin already present, nothing to do")
			}
			return c.print(map[string]any{"created": true}, "admin created")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del admin (vacío = prompt)")
	cmd.Flags().StringVar(&name, "name", "", "nombre visible")
	return cmd
}

func newInviteCmd(c *cli) *cobra.Command {
	inviteCmd := &cobra.Command{Use: "invite", Short: "Invitaciones de admin"}

	var as, email, code, ttl string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea o reemplaza la invitación de un email institucional",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.load(ctx, false); err != nil {
				return err
			}
			actor, err := c.actor(ctx, as)
			if err != nil {
				return err
			}
			res, err := c.app.Services.Admin.Onboarding.CreateInvite(ctx, actor, admindto.CreateInviteRequest{
				Email: email,
				Code:  code,
				TTL:   ttl,
			})
			if err != nil {
				return err
			}
			return c.print(res, fmt.Sprintf("invite for %s: code=%s expires_at=%s", res.Email, res.Code, res.ExpiresAt.Format(time.RFC3339)))
		},
	}
	createCmd.Flags().StringVar(&as, "as", "", "email del admin que invita")
	createCmd.Flags().StringVar(&email, "email", "", "email invitado")
	createCmd.Flags().StringVar(&code, "code", "", "código (vacío = generado)")
	createCmd.Flags().StringVar(&ttl, "ttl", "", "vigencia, ej: 72h")
	_ = createCmd.MarkFlagRequired("email")

	inviteCmd.AddCommand(createCmd)
	return inviteCmd
}

func newIdentitiesCmd(c *cli) *cobra.Command {
	idCmd := &cobra.Command{Use: "identities", Short: "Vetting de cuentas"}

	var as, role string
	var limit, offset int
	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "Lista cuentas pendientes de aprobación",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.load(ctx, false); err != nil {
				return err
			}
			actor, err := c.actor(ctx, as)
			if err != nil {
				return err
			}
			res, err := c.app.Services.Admin.Console.ListPending(ctx, actor, types.ParseRole(role), limit, offset)
			if err != nil {
				return err
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d pending (showing %d)", res.Total, len(res.Items))
			for _, it := range res.Items {
				fmt.Fprintf(&b, "\n  %s  %-8s  %s", it.ID, it.Role, it.Email)
			}
			return c.print(res, b.String())
		},
	}
	pendingCmd.Flags().StringVar(&as, "as", "", "email del admin")
	pendingCmd.Flags().StringVar(&role, "role", "", "student|alumni (vacío = ambos)")
	pendingCmd.Flags().IntVar(&limit, "limit", 0, "tamaño de página")
	pendingCmd.Flags().IntVar(&offset, "offset", 0, "offset")

	var approveAs, status string
	approveCmd := &cobra.Command{
		Use:   "approve <identity-id>",
		Short: "Aprueba o rechaza una cuenta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.load(ctx, false); err != nil {
				return err
			}
			actor, err := c.actor(ctx, approveAs)
			if err != nil {
				return err
			}
			res, err := c.app.Services.Admin.Console.SetApprovalStatus(ctx, actor, args[0], types.ApprovalStatus(status))
			if err != nil {
				return err
			}
			return c.print(res, fmt.Sprintf("%s is now %s", res.Email, res.ApprovalStatus))
		},
	}
	approveCmd.Flags().StringVar(&approveAs, "as", "", "email del admin")
	approveCmd.Flags().StringVar(&status, "status", string(types.ApprovalApproved), "approved|rejected")

	idCmd.AddCommand(pendingCmd, approveCmd)
	return idCmd
}

func newMatchCmd(c *cli) *cobra.Command {
	matchCmd := &cobra.Command{Use: "match", Short: "Matches estudiante-mentor"}

	var as, student, alumni, summary string
	var score float64
	confirmCmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirma un match entre un estudiante y un mentor aprobados",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.load(ctx, false); err != nil {
				return err
			}
			actor, err := c.actor(ctx, as)
			if err != nil {
				return err
			}
			res, err := c.app.Services.Admin.Console.ConfirmMatch(ctx, actor, admindto.ConfirmMatchRequest{
				StudentID: student,
				AlumniID:  alumni,
				Score:     score,
				Reasons:   types.MatchReasons{Summary: summary},
			})
			if err != nil {
				return err
			}
			return c.print(res, fmt.Sprintf("match %s confirmed (%s -> %s)", res.ID, res.StudentID, res.AlumniID))
		},
	}
	confirmCmd.Flags().StringVar(&as, "as", "", "email del admin")
	confirmCmd.Flags().StringVar(&student, "student", "", "ID del estudiante")
	confirmCmd.Flags().StringVar(&alumni, "alumni", "", "ID del mentor")
	confirmCmd.Flags().Float64Var(&score, "score", 0, "score 0..1")
	confirmCmd.Flags().StringVar(&summary, "summary", "", "motivo del match")
	_ = confirmCmd.MarkFlagRequired("student")
	_ = confirmCmd.MarkFlagRequired("alumni")

	matchCmd.AddCommand(confirmCmd)
	return matchCmd
}
