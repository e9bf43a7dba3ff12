package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lvyanru/actctl/internal/cli/views"
)

// truncate shortens s to width terminal cells; titles are often CJK
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// RenderList renders the public list page
func RenderList(state views.ListState) string {
	if state.Phase != views.PhaseReady {
		return renderPlaceholder(state.Phase, state.Message)
	}

	inner := cardWidth - 4
	cards := make([]string, 0, len(state.Cards))
	for _, c := range state.Cards {
		lines := []string{
			Styles.CardBanner.Render(truncate(views.BannerTitle, inner)),
			Styles.CardTag.Render(truncate(c.Tag, inner)),
			"",
			Styles.CardTitle.Render(truncate(fmt.Sprintf("[%d] %s", c.ID, c.Title), inner)),
			Styles.Muted.Render(truncate("time: "+c.Time, inner)),
		}
		cards = append(cards, Styles.Card.Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}

// RenderAdmin renders the console's activity table
func RenderAdmin(state views.AdminState) string {
	if state.Phase != views.PhaseReady {
		return renderPlaceholder(state.Phase, state.Message)
	}

	idWidth, titleWidth := len("ID"), len("TITLE")
	for _, item := range state.Items {
		idWidth = max(idWidth, len(fmt.Sprint(item.ID)))
		titleWidth = max(titleWidth, runewidth.StringWidth(item.Title))
	}
	titleWidth = min(titleWidth, 40)

	var b strings.Builder
	b.WriteString(Styles.Bold.Render(fmt.Sprintf("%-*s  %s  %s", idWidth, "ID", runewidth.FillRight("TITLE", titleWidth), "TIME")))
	for _, item := range state.Items {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-*d  %s  %s",
			idWidth, item.ID,
			runewidth.FillRight(truncate(item.Title, titleWidth), titleWidth),
			Styles.Muted.Render(item.Time),
		))
	}
	return b.String()
}

// RenderDetail renders the detail page
func RenderDetail(state views.DetailState) string {
	switch state.Phase {
	case views.PhaseReady:
	case views.PhaseLoading:
		return renderPlaceholder(state.Phase, views.MsgListLoading)
	default:
		return ""
	}

	inner := cardWidth - 4
	lines := []string{
		Styles.CardTitle.Render(truncate(state.Title, inner)),
		"",
		Styles.Muted.Render("top image:    ") + truncate(state.TopImage, inner-14),
		Styles.Muted.Render("bottom image: ") + truncate(state.BottomImage, inner-14),
	}
	return Styles.Card.Render(strings.Join(lines, "\n"))
}

func renderPlaceholder(phase views.Phase, message string) string {
	if message == "" {
		return ""
	}
	if phase == views.PhaseFailed {
		return errorColor.Sprint(message)
	}
	return Styles.Placeholder.Render(message)
}

// SessionInfo is what `status` shows
type SessionInfo struct {
	Server    string
	Backend   string
	HasToken  bool
	Valid     bool
	Subject   string
	ExpiresAt string
	// Problem explains why a stored token is not usable
	Problem string
}

// RenderSession renders the session summary box
func RenderSession(info SessionInfo) string {
	state := "not logged in"
	switch {
	case info.HasToken && info.Valid:
		state = "logged in"
	case info.HasToken:
		state = "token rejected"
	}

	rows := [][2]string{
		{"Server:", info.Server},
		{"Token store:", info.Backend},
		{"Session:", state},
	}
	if info.Subject != "" {
		rows = append(rows, [2]string{"Phone:", info.Subject})
	}
	if info.ExpiresAt != "" {
		rows = append(rows, [2]string{"Expires:", info.ExpiresAt})
	}
	if info.Problem != "" {
		rows = append(rows, [2]string{"Problem:", info.Problem})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Styles.Muted.Render(runewidth.FillRight(r[0], 13))+r[1])
	}

	box := Styles.SuccessBox
	if !info.Valid {
		box = Styles.ErrorBox
	}
	return box.Render(strings.Join(lines, "\n"))
}
