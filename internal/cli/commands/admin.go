package commands

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/ui"
	"github.com/lvyanru/actctl/internal/cli/views"
	"github.com/lvyanru/actctl/internal/domain"
)

var (
	adminForce bool
	adminFile  string
	adminForm  views.Form
)

// adminCmd groups the admin console commands
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "manage activities",
	Long: `The admin console: list, create, open and delete activities.

Blank image fields on create fall back to the site's stock images.`,
	Example: `  # List activities with their IDs
  $ actctl admin list

  # Create from flags, a file, or the interactive form
  $ actctl admin create --title "Spring sale" --start 2025-03-01 --end 2025-03-31
  $ actctl admin create -f activity.yaml
  $ actctl admin create

  # Delete without confirmation
  $ actctl admin delete 5 --force`,
}

var adminListCmd = &cobra.Command{
	Use:          "list",
	Short:        "list activities",
	Args:         cobra.NoArgs,
	RunE:         runAdminList,
	SilenceUsage: true,
}

var adminOpenCmd = &cobra.Command{
	Use:          "open <id>",
	Short:        "open an activity's detail page",
	Args:         cobra.ExactArgs(1),
	RunE:         runAdminOpen,
	SilenceUsage: true,
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete an activity",
	Long: `Delete an activity.

By default, you will be prompted to confirm the deletion. Use --force to skip confirmation.`,
	Args:         cobra.ExactArgs(1),
	RunE:         runAdminDelete,
	SilenceUsage: true,
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "create an activity",
	Long: `Create an activity.

Fields come from --file, then from flags (flags win). With neither and a
terminal, an interactive form is shown. Example file:

  kind: Activity
  spec:
    title: Spring sale
    startTime: "2025-03-01"
    endTime: "2025-03-31"
    bgImage: ../bg-1.png`,
	Args:         cobra.NoArgs,
	RunE:         runAdminCreate,
	SilenceUsage: true,
}

func init() {
	adminDeleteCmd.Flags().BoolVar(&adminForce, "force", false, "Skip confirmation prompt")

	adminCreateCmd.Flags().StringVarP(&adminFile, "file", "f", "", "Activity YAML file")
	adminCreateCmd.Flags().StringVar(&adminForm.Title, "title", "", "Title")
	adminCreateCmd.Flags().StringVar(&adminForm.BgImage, "bg-image", "", "List background image")
	adminCreateCmd.Flags().StringVar(&adminForm.StartTime, "start", "", "Start time")
	adminCreateCmd.Flags().StringVar(&adminForm.EndTime, "end", "", "End time")
	adminCreateCmd.Flags().StringVar(&adminForm.DetailTopImage, "top-image", "", "Detail page top image")
	adminCreateCmd.Flags().StringVar(&adminForm.DetailBottomImage, "bottom-image", "", "Detail page bottom image")

	adminCmd.AddCommand(adminListCmd, adminOpenCmd, adminDeleteCmd, adminCreateCmd)
}

// withConsole wires the console, runs fn and settles the session afterwards
func withConsole(cmd *cobra.Command, confirmer views.Confirmer, fn func(a *app, c *views.AdminConsole) error) error {
	a, err := newApp()
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}
	defer a.close()

	if confirmer == nil {
		confirmer = surveyConfirmer{interactive: a.interactive}
	}
	console := newAdminConsole(a, terminalNavigator{a: a, cmd: cmd}, confirmer)
	a.onAuthenticated(console.Load)

	err = fn(a, console)
	if serr := a.settleSession(cmd); serr != nil {
		return serr
	}
	return err
}

func runAdminList(cmd *cobra.Command, args []string) error {
	return withConsole(cmd, nil, func(a *app, c *views.AdminConsole) error {
		ctx, cancel := a.context(cmd)
		defer cancel()
		c.Load(ctx)
		return nil
	})
}

func runAdminOpen(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withConsole(cmd, nil, func(a *app, c *views.AdminConsole) error {
		c.OpenDetail(id)
		return nil
	})
}

func runAdminDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var confirmer views.Confirmer
	if adminForce {
		confirmer = views.ConfirmFunc(func(string) bool { return true })
	}

	return withConsole(cmd, confirmer, func(a *app, c *views.AdminConsole) error {
		ctx, cancel := a.context(cmd)
		defer cancel()
		if !c.Delete(ctx, id) {
			return fmt.Errorf("activity %d not deleted", id)
		}
		return nil
	})
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	return withConsole(cmd, nil, func(a *app, c *views.AdminConsole) error {
		if adminFile != "" {
			if err := c.ImportFile(adminFile); err != nil {
				if domain.IsValidation(err) {
					ui.PrintError("%s: %v", adminFile, err)
				} else {
					ui.PrintError("failed to load %s: %v", adminFile, err)
				}
				return err
			}
		}
		form := mergeForm(c.Form(), adminForm)

		if form.Title == "" && adminFile == "" && a.interactive {
			if err := askForm(&form); err != nil {
				return fmt.Errorf("input failed: %w", err)
			}
		}
		c.SetForm(form)

		ctx, cancel := a.context(cmd)
		defer cancel()
		if !c.Create(ctx) {
			return fmt.Errorf("activity not saved")
		}
		return nil
	})
}

// mergeForm overlays the non-empty fields of override on base
func mergeForm(base, override views.Form) views.Form {
	pick := func(b, o string) string {
		if o != "" {
			return o
		}
		return b
	}
	return views.Form{
		Title:             pick(base.Title, override.Title),
		BgImage:           pick(base.BgImage, override.BgImage),
		StartTime:         pick(base.StartTime, override.StartTime),
		EndTime:           pick(base.EndTime, override.EndTime),
		DetailTopImage:    pick(base.DetailTopImage, override.DetailTopImage),
		DetailBottomImage: pick(base.DetailBottomImage, override.DetailBottomImage),
	}
}

// askForm shows the create form; blank answers keep the defaults
func askForm(form *views.Form) error {
	questions := []*survey.Question{
		{Name: "Title", Prompt: &survey.Input{Message: "Title:", Default: form.Title}},
		{Name: "StartTime", Prompt: &survey.Input{Message: "Start time:", Default: form.StartTime}},
		{Name: "EndTime", Prompt: &survey.Input{Message: "End time:", Default: form.EndTime}},
		{Name: "BgImage", Prompt: &survey.Input{Message: "Background image:", Default: form.BgImage, Help: "blank for ../bg-1.png"}},
		{Name: "DetailTopImage", Prompt: &survey.Input{Message: "Detail top image:", Default: form.DetailTopImage, Help: "blank for the stock image"}},
		{Name: "DetailBottomImage", Prompt: &survey.Input{Message: "Detail bottom image:", Default: form.DetailBottomImage, Help: "blank for the stock image"}},
	}
	return survey.Ask(questions, form)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		ui.PrintError("invalid activity id: %s", s)
		return 0, fmt.Errorf("invalid activity id %q", s)
	}
	return id, nil
}
