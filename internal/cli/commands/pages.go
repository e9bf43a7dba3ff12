package commands

import (
	"net/url"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/ui"
	"github.com/lvyanru/actctl/internal/cli/views"
)

// terminalNavigator shows navigation targets in place. A terminal has no
// tabs, so Open behaves like Navigate.
type terminalNavigator struct {
	a   *app
	cmd *cobra.Command
}

func (n terminalNavigator) Navigate(target string) { n.show(target) }
func (n terminalNavigator) Open(target string)     { n.show(target) }

func (n terminalNavigator) show(target string) {
	ctx, cancel := n.a.context(n.cmd)
	defer cancel()

	page, query := views.ParseTarget(target)
	n.a.logger.DebugContext(ctx, "navigate", "page", page, "query", query.Encode())

	switch page {
	case views.DetailPage:
		newDetailPage(n.a, n).Load(ctx, query)
	case views.ListPage:
		newListPage(n.a, n).Load(ctx)
	default:
		ui.PrintWarning("unknown page: %s", target)
	}
}

func newListPage(a *app, nav views.Navigator) *views.ListView {
	v := views.NewListView(a.gateway, a.verifier, nav, a.logger)
	v.OnRender(func(s views.ListState) {
		switch s.Phase {
		case views.PhaseLoading:
			if a.interactive {
				ui.Println(ui.Styles.Muted.Render(s.Message))
			}
		case views.PhaseBlocked:
		default:
			ui.PrintBanner("Activities")
			ui.Println(ui.RenderList(s))
		}
	})
	return v
}

func newDetailPage(a *app, nav views.Navigator) *views.DetailView {
	v := views.NewDetailView(a.gateway, nav, a.notifier, a.logger)
	v.OnRender(func(s views.DetailState) {
		if s.Phase == views.PhaseReady {
			ui.Println(ui.RenderDetail(s))
		}
	})
	return v
}

func newAdminConsole(a *app, nav views.Navigator, confirmer views.Confirmer) *views.AdminConsole {
	c := views.NewAdminConsole(a.gateway, nav, confirmer, a.notifier, a.logger)
	c.OnRender(func(s views.AdminState) {
		ui.Println(ui.RenderAdmin(s))
	})
	return c
}

// surveyConfirmer asks on the terminal; without one it declines
type surveyConfirmer struct {
	interactive bool
}

func (c surveyConfirmer) Confirm(message string) bool {
	if !c.interactive {
		ui.PrintWarning("%s (no terminal, use --force)", message)
		return false
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok); err != nil {
		return false
	}
	return ok
}

func detailQuery(args []string) url.Values {
	query := url.Values{}
	if len(args) > 0 {
		query.Set("id", args[0])
	}
	return query
}
