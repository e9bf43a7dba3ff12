package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/ui"
)

var (
	loginPhone    string
	loginCode     string
	loginAgree    bool
	loginSendCode bool
)

// loginCmd is the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "log in with phone number and verification code",
	Long: `Log in with your phone number and a verification code.

In a terminal this opens the login dialog: enter your phone number, request a
code, enter it, accept the user agreement and confirm. The code button stays
disabled for 60 seconds after a code was sent.

Without a terminal, request a code with --send-code and then log in with
--code and --agree. The token is saved in the configured token store and
used by every later command until it expires or you log out.`,
	Example: `  # Interactive login
  $ actctl login

  # Scripted login
  $ actctl login --phone 13800138000 --send-code
  $ actctl login --phone 13800138000 --code 123456 --agree`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPhone, "phone", "p", "", "Phone number")
	loginCmd.Flags().StringVarP(&loginCode, "code", "c", "", "Verification code (non-interactive login)")
	loginCmd.Flags().BoolVar(&loginAgree, "agree", false, "Accept the user agreement and privacy policy")
	loginCmd.Flags().BoolVar(&loginSendCode, "send-code", false, "Only request a verification code for --phone")

	// Silence usage to avoid showing help on every error
	loginCmd.SilenceUsage = true
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}
	defer a.close()

	ctx, cancel := a.context(cmd)
	defer cancel()

	switch {
	case loginSendCode:
		a.flow.Show()
		defer a.flow.Hide()
		a.flow.SetPhone(loginPhone)
		if !a.flow.SendCode(ctx) {
			return fmt.Errorf("failed to send verification code")
		}
		ui.PrintInfo("run 'actctl login --phone %s --code <code> --agree' within a few minutes", loginPhone)
		return nil

	case loginCode != "":
		a.flow.Show()
		a.flow.SetPhone(loginPhone)
		a.flow.SetCode(loginCode)
		a.flow.SetAgreement(loginAgree)
		if !a.flow.Login(ctx) {
			a.flow.Hide()
			return fmt.Errorf("login failed")
		}

	case a.interactive:
		a.flow.Show()
		a.flow.SetPhone(loginPhone)
		ok, err := a.runLoginModal(cmd.Context())
		if err != nil {
			ui.PrintError("%v", err)
			return err
		}
		if !ok {
			return fmt.Errorf("login cancelled")
		}

	default:
		ui.PrintError("no terminal: use --phone with --send-code, then --code and --agree")
		return fmt.Errorf("interactive login unavailable")
	}

	ui.PrintSuccessBox("✓ Login Successful", fmt.Sprintf(`Server:       %s
Token store:  %s`, a.gateway.Server(), a.cfg.Token.Backend))

	fmt.Fprintln(ui.Out)
	ui.PrintInfo("You can now use the following commands:")
	ui.PrintBold("  actctl list              # Browse activities")
	ui.PrintBold("  actctl detail <id>       # Show an activity")
	return nil
}
