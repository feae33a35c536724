package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/repository"
	"github.com/alexanderramin/onboard/internal/session"
)

func newStatusCmd(app *App) *cobra.Command {
	var src session.Source

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the onboarding status and stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.ctx()
			if app.Session == nil || app.Profiles == nil {
				return errors.New("status needs a session store and a backend")
			}
			res, err := app.Session.Resolve(ctx, src)
			if err != nil {
				if errors.Is(err, session.ErrNoIdentity) {
					return errors.New("no saved session; pass --url or --user-id and --user-type")
				}
				return err
			}
			id := res.Identity

			stop := func() {}
			if app.IsInteractive != nil && app.IsInteractive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Checking your profile...")
			}
			st, err := app.Profiles.Status(ctx, id)
			stop()
			if err != nil {
				return fmt.Errorf("checking status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatStatus(id, st))

			if app.Completions != nil {
				last, err := app.Completions.Latest(ctx, id.UserID)
				switch {
				case err == nil:
					if !last.Saved && !st.Completed {
						fmt.Fprintln(out, formatter.FormatNotice(unsavedRunNotice(last)))
					}
				case !errors.Is(err, repository.ErrNotFound):
					return err
				}

				list, err := app.Completions.ListByUser(ctx, id.UserID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Header("Local completions"))
				fmt.Fprint(out, formatter.FormatCompletions(list, app.now()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&src.URL, "url", "", "Onboarding link carrying user_id and user_type")
	cmd.Flags().StringVar(&src.UserID, "user-id", "", "User id")
	cmd.Flags().StringVar(&src.UserType, "user-type", "", "User type: student or teacher")
	cmd.MarkFlagsRequiredTogether("user-id", "user-type")

	return cmd
}

func unsavedRunNotice(c *repository.Completion) string {
	msg := fmt.Sprintf("Your last run on %s finished without saving", c.CompletedAt.Format("2006-01-02 15:04"))
	if c.Error != "" {
		msg += ": " + c.Error
	}
	return msg + ". Run onboard again to save your profile."
}
