package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
)

func newStepsCmd() *cobra.Command {
	var userType string

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Print the onboarding questions for each user type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := []domain.UserType{domain.UserTypeStudent, domain.UserTypeTeacher}
			if userType != "" {
				t, err := domain.ParseUserType(userType)
				if err != nil {
					return err
				}
				types = []domain.UserType{t}
			}

			out := cmd.OutOrStdout()
			for i, t := range types {
				table, err := onboarding.TableFor(t)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatSteps(table))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userType, "type", "", "Only this user type (student or teacher)")
	return cmd
}
