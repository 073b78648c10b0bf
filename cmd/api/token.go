package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"project-builder-backend/internal/auth"
	"project-builder-backend/internal/config"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the API",
	Long: `Mint an HS256 bearer token signed with JWT_SECRET. The API only checks
tokens when JWT_SECRET is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}

		tok, err := auth.GenerateToken([]byte(cfg.JWTSecret), tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTokenTTL, "Token lifetime")
}
