package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"playlist-hub/internal/auth"
	"playlist-hub/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		name     string
		admin    bool
		disabled bool
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an identity token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := auth.Sign(auth.Claims{Name: name, Admin: admin, Disabled: disabled}, []byte(cfg.JWTSecret), ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "account name carried in the token")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin flag")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "mark the account as disabled")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	return cmd
}
