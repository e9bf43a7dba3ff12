package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/ui"
)

var (
	detailClaim bool
	detailAgree bool
)

// detailCmd is the detail command
var detailCmd = &cobra.Command{
	Use:   "detail <id>",
	Short: "show an activity",
	Long: `Show an activity's detail page: its title and the top and bottom images.

Use --claim with --agree to claim the offer; claiming requires accepting the
user agreement and privacy policy.`,
	Example: `  # Show activity 1
  $ actctl detail 1

  # Claim the offer
  $ actctl detail 1 --claim --agree`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetail,
}

func init() {
	detailCmd.Flags().BoolVar(&detailClaim, "claim", false, "Claim the activity's offer")
	detailCmd.Flags().BoolVar(&detailAgree, "agree", false, "Accept the user agreement and privacy policy")

	// Silence usage to avoid showing help on every error
	detailCmd.SilenceUsage = true
}

func runDetail(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}
	defer a.close()

	page := newDetailPage(a, terminalNavigator{a: a, cmd: cmd})
	query := detailQuery(args)
	a.onAuthenticated(func(ctx context.Context) { page.Load(ctx, query) })

	ctx, cancel := a.context(cmd)
	page.Load(ctx, query)
	cancel()

	if err := a.settleSession(cmd); err != nil {
		return err
	}

	if detailClaim {
		page.Claim(detailAgree)
	}
	return nil
}
