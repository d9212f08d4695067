package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stitchboard/tailor-admin/internal/core/ports"
	"github.com/stitchboard/tailor-admin/internal/core/service"
	"github.com/stitchboard/tailor-admin/internal/infrastructure/db/mongo"
)

// seedAdminCmd represents the seed-admin command
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Creates or promotes the initial administrator",
	Long: `Creates the administrator described by INITIAL_ADMIN_NAME, INITIAL_ADMIN_EMAIL
and INITIAL_ADMIN_PASSWORD, or promotes the account already using that email.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		admin := cfg.InitialAdmin
		if !admin.Enabled() {
			return errors.New("INITIAL_ADMIN_NAME, INITIAL_ADMIN_EMAIL and INITIAL_ADMIN_PASSWORD must all be set")
		}

		ctx := cmd.Context()
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "tailor-admin-seed"})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		users := mongo.NewUserRepository(db)
		if err := mongo.EnsureIndexes(ctx, users); err != nil {
			return err
		}

		accounts := service.NewAccountService(
			users,
			service.NewBcryptHasher(cfg.Auth.BcryptCost),
			service.NewTokenService(cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenExpiry),
			nil,
			cfg.Auth.RecoveryTokenTTL,
			log,
		)
		user, created, err := accounts.SeedAdmin(ctx, ports.SignUpInput{
			Name:     admin.Name,
			Email:    admin.Email,
			Password: admin.Password,
		})
		if err != nil {
			return err
		}

		log.Info().Str("user_id", user.ID).Bool("created", created).Msg("initial admin ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
}
