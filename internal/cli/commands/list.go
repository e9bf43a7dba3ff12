package commands

import (
	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/ui"
)

var listOpenID int64

// listCmd is the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list activities",
	Long: `List the available activities.

The stored session is verified first. Without a session the login dialog
opens and the list loads once you are logged in. Use --open to continue to
an activity's detail page.`,
	Example: `  # List activities
  $ actctl list

  # List and open activity 1
  $ actctl list --open 1`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().Int64Var(&listOpenID, "open", 0, "Open the detail page of this activity ID after listing")

	// Silence usage to avoid showing help on every error
	listCmd.SilenceUsage = true
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}
	defer a.close()

	nav := terminalNavigator{a: a, cmd: cmd}
	page := newListPage(a, nav)
	a.onAuthenticated(page.Load)

	ctx, cancel := a.context(cmd)
	started := page.Start(ctx)
	cancel()

	if !started {
		if err := a.unverified(); err != nil {
			return err
		}
	}

	if err := a.settleSession(cmd); err != nil {
		return err
	}

	if listOpenID != 0 {
		page.Open(listOpenID)
	}
	return nil
}
