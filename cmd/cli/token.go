package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/coursehub/internal/application/dto"
)

func newTokenCmd(open opener) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint access tokens",
	}

	var (
		email string
		ttl   time.Duration
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			token, err := c.Auth.IssueToken(cmd.Context(), &dto.IssueTokenRequest{
				Email:      email,
				TTLMinutes: int(ttl / time.Minute),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&email, "email", "", "email of the user the token is for (required)")
	issueCmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, rounded down to minutes; 0 uses jwt.access_token_expire_minutes")
	_ = issueCmd.MarkFlagRequired("email")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}
