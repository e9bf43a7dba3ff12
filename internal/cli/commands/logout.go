package commands

import (
	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/ui"
)

// logoutCmd is the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "forget the stored login token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			ui.PrintError("%v", err)
			return err
		}
		defer a.close()

		if err := a.flow.Logout(); err != nil {
			ui.PrintError("failed to remove token: %v", err)
			return err
		}
		ui.PrintSuccess("logged out")
		return nil
	},
	SilenceUsage: true,
}
