/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/db"
	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/store"
)

var adminForm services.Registration

// createAdminCmd represents the create-admin command
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Creates an administrator account",
	Long: `Creates an administrator account. Self-registration only ever creates
regular users, so the first administrator is created here.

	webmoto create-admin --username root --password secret \
		--email root@example.com --phone 0123456789 --birth-date 1990-01-01
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		client, database, err := db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Disconnect(ctx)
		}()

		passwords, err := auth.NewPasswords(cfg.Auth.PasswordScheme)
		if err != nil {
			return err
		}
		users := services.NewUserService(
			store.NewUserRepository(database),
			store.NewLibraryRepository(database),
			passwords,
			logger,
		)

		user, err := users.CreateAdmin(ctx, adminForm)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info(ctx, "admin created", "username", user.Username, "id", user.ID.Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	f := createAdminCmd.Flags()
	f.StringVar(&adminForm.Username, "username", "", "admin username")
	f.StringVar(&adminForm.Password, "password", "", "admin password")
	f.StringVar(&adminForm.Email, "email", "", "admin email")
	f.StringVar(&adminForm.Phone, "phone", "", "10 digit phone number")
	f.StringVar(&adminForm.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}
