package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/clinic-api/internal/config"
	"github.com/harentsoaR/clinic-api/internal/logging"
)

func seedAdminCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first Super Admin when the roster is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.Env)

			if name == "" {
				name = cfg.SeedAdminName
			}
			if email == "" {
				email = cfg.SeedAdminEmail
			}
			if password == "" {
				password = cfg.SeedAdminPassword
			}
			if email == "" || password == "" {
				return errors.New("email and password are required (flags or SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD)")
			}

			ctx := cmd.Context()
			kv, closeStore, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			a, err := buildApp(ctx, cfg, kv, logger)
			if err != nil {
				return err
			}
			created, err := a.admins.Seed(ctx, name, email, password)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintln(cmd.OutOrStdout(), "roster is not empty; nothing to do")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created Super Admin %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name (default SEED_ADMIN_NAME)")
	cmd.Flags().StringVar(&email, "email", "", "login email (default SEED_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "password (default SEED_ADMIN_PASSWORD)")
	return cmd
}
