package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolplanet/services/marketplace-api/internal/auth"
	"toolplanet/shared/pkg/config"
)

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token [email]",
		Short: "Issue an access token for an email",
		Long: `Issue an access token signed with TOKEN_SECRET.

Examples:
  marketplace-api token a@x.com
  curl -H "Authorization: Bearer $(marketplace-api token a@x.com)" localhost:5000/users`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokenService(cfg.Token.Secret, cfg.Token.TTL)
			if err != nil {
				return err
			}
			tok, err := tokens.Issue(auth.Identity{Email: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}
