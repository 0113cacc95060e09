package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artsapp/builder/internal/application/dto"
	domainservice "github.com/artsapp/builder/internal/domain/service"
)

func init() {
	var workgroupID string
	checkCmd := &cobra.Command{
		Use:   "check PERMISSION...",
		Short: "Check whether the session user holds every permission",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			user, err := env.repos.Auth.CurrentUser(env.context(cmd))
			if err != nil {
				return err
			}
			result := dto.PermittedResponse{Permitted: domainservice.IsPermitted(user, args, workgroupID)}
			if opts.output == "table" {
				verdict := "not permitted"
				if result.Permitted {
					verdict = "permitted"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", user.ID, verdict)
				return nil
			}
			return render(cmd.OutOrStdout(), opts.output, result)
		},
	}
	checkCmd.Flags().StringVar(&workgroupID, "workgroup", "", "require membership of this workgroup")

	permissionsCmd := &cobra.Command{Use: "permissions", Short: "Inspect the session user's permissions"}
	permissionsCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(permissionsCmd)
}
