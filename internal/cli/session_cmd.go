package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/session"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or forget the identity saved on this machine",
	}

	cmd.AddCommand(
		newSessionShowCmd(app),
		newSessionClearCmd(app),
	)

	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return errors.New("no session store configured")
			}
			out := cmd.OutOrStdout()
			id, err := app.Session.Stored(app.ctx())
			if err != nil {
				if errors.Is(err, session.ErrNoIdentity) {
					fmt.Fprintln(out, formatter.Dim("No saved session."))
					return nil
				}
				return err
			}
			fmt.Fprintln(out, formatter.Header("Session"))
			fmt.Fprintln(out, formatter.RenderKeyValues([][2]string{
				{"User ID", id.UserID},
				{"Role", formatter.UserTypeBadge(id.UserType)},
				{"Name", id.Name},
				{"Email", id.Email},
			}))
			return nil
		},
	}
}

func newSessionClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session == nil {
				return errors.New("no session store configured")
			}
			if err := app.Session.Clear(app.ctx()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}
