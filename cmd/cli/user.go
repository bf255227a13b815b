package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/coursehub/internal/application/dto"
)

func newUserCmd(open opener) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var req dto.UserCreateRequest
	createCmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create a user with the super-user flag set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			req.IsSuperUser = true
			user, err := c.Users.Create(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created super user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	flags := createCmd.Flags()
	flags.StringVar(&req.Email, "email", "", "email address (required)")
	flags.StringVar(&req.Password, "password", "", "password, 6 to 30 characters (required)")
	flags.StringVar(&req.FirstName, "first-name", "", "first name (required)")
	flags.StringVar(&req.LastName, "last-name", "", "last name (required)")
	flags.StringVar(&req.JobTitle, "job-title", "Administrator", "job title")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")
	_ = createCmd.MarkFlagRequired("first-name")
	_ = createCmd.MarkFlagRequired("last-name")

	userCmd.AddCommand(createCmd)
	return userCmd
}
