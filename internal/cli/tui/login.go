package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvyanru/actctl/internal/cli/login"
	"github.com/lvyanru/actctl/internal/cli/notify"
	"github.com/lvyanru/actctl/internal/cli/ui"
)

// UI configuration constants
const (
	toastDuration  = 2 * time.Second
	phoneCharLimit = 11
	codeCharLimit  = 6
	inputWidth     = 20
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// focus targets, in tab order
type focus int

const (
	focusPhone focus = iota
	focusCode
	focusCodeButton
	focusAgreement
	focusSubmit
	focusCount
)

// Message type definitions
type (
	// flowChangedMsg asks for a redraw; the view always reads the latest snapshot
	flowChangedMsg struct{}
	toastMsg       struct{ text string }
	toastExpireMsg struct{ seq int }
	actionDoneMsg  struct{}
)

// LoginProgram runs the login modal in the terminal
type LoginProgram struct {
	flow     *login.Flow
	notifier *notify.Switch
	opts     []tea.ProgramOption
}

// NewLoginProgram creates the modal program. While it runs, notifications
// sent to notifier are shown inside the modal.
func NewLoginProgram(flow *login.Flow, notifier *notify.Switch, opts ...tea.ProgramOption) *LoginProgram {
	return &LoginProgram{flow: flow, notifier: notifier, opts: opts}
}

// Run shows the modal until the user logs in or closes it and reports
// whether the login succeeded
func (p *LoginProgram) Run(ctx context.Context) (bool, error) {
	p.flow.Show()

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts...)
	program := tea.NewProgram(newLoginModel(ctx, p.flow), opts...)

	// Send blocks while Update runs; flow hooks fire from inside Update
	cancel := p.flow.OnChange(func(login.Snapshot) {
		go program.Send(flowChangedMsg{})
	})
	defer cancel()

	if p.notifier != nil {
		restore := p.notifier.Swap(notify.Func(func(text string) {
			go program.Send(toastMsg{text: text})
		}))
		defer restore()
	}

	_, err := program.Run()
	if p.flow.Visible() {
		p.flow.Hide()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return false, err
	}
	return p.flow.Snapshot().State == login.StateAuthenticated, nil
}

// loginModel is the Bubble Tea model of the modal
type loginModel struct {
	ctx  context.Context
	flow *login.Flow

	phone textinput.Model
	code  textinput.Model
	focus focus

	toast    string
	toastSeq int
	busy     bool
}

func newLoginModel(ctx context.Context, flow *login.Flow) loginModel {
	phone := textinput.New()
	phone.Placeholder = "mobile number"
	phone.CharLimit = phoneCharLimit
	phone.Width = inputWidth
	phone.Prompt = ""
	phone.Focus()

	code := textinput.New()
	code.Placeholder = "verification code"
	code.CharLimit = codeCharLimit
	code.Width = inputWidth
	code.Prompt = ""

	snap := flow.Snapshot()
	phone.SetValue(snap.Phone)
	code.SetValue(snap.Code)

	return loginModel{ctx: ctx, flow: flow, phone: phone, code: code}
}

// Init initializes the model (Bubble Tea interface)
func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case toastMsg:
		m.toast = msg.text
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpireMsg{seq: seq} })

	case toastExpireMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case actionDoneMsg:
		m.busy = false
		return m, m.quitIfClosed()

	case flowChangedMsg:
		return m, m.quitIfClosed()
	}

	return m.updateInputs(msg)
}

func (m loginModel) quitIfClosed() tea.Cmd {
	if !m.flow.Visible() {
		return tea.Quit
	}
	return nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.flow.Hide()
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		return m.setFocus((m.focus + 1) % focusCount), nil

	case tea.KeyShiftTab, tea.KeyUp:
		return m.setFocus((m.focus + focusCount - 1) % focusCount), nil

	case tea.KeyEnter:
		switch m.focus {
		case focusPhone:
			m.flow.ValidatePhone(m.phone.Value())
			return m.setFocus(focusCode), nil
		case focusCodeButton:
			return m.run(m.flow.SendCode)
		case focusAgreement:
			m.flow.SetAgreement(!m.flow.Snapshot().AgreementAccepted)
			return m, nil
		default:
			// enter in the code field submits, like the site
			return m.run(m.flow.Login)
		}

	case tea.KeySpace:
		if m.focus == focusAgreement {
			m.flow.SetAgreement(!m.flow.Snapshot().AgreementAccepted)
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

// run starts a flow action off the UI goroutine
func (m loginModel) run(action func(context.Context) bool) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	ctx := m.ctx
	return m, func() tea.Msg {
		action(ctx)
		return actionDoneMsg{}
	}
}

func (m loginModel) setFocus(f focus) loginModel {
	m.focus = f
	m.phone.Blur()
	m.code.Blur()
	switch f {
	case focusPhone:
		m.phone.Focus()
	case focusCode:
		m.code.Focus()
	}
	return m
}

func (m loginModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	prevPhone, prevCode := m.phone.Value(), m.code.Value()

	m.phone, cmd = m.phone.Update(msg)
	cmds = append(cmds, cmd)
	m.code, cmd = m.code.Update(msg)
	cmds = append(cmds, cmd)

	if v := m.phone.Value(); v != prevPhone {
		m.flow.SetPhone(v)
	}
	if v := m.code.Value(); v != prevCode {
		m.flow.SetCode(v)
	}

	return m, tea.Batch(cmds...)
}

// View renders the modal (Bubble Tea interface)
func (m loginModel) View() string {
	snap := m.flow.Snapshot()
	if !snap.Visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.Styles.Bold.Render("Log in"))
	b.WriteString("\n\n")

	b.WriteString(m.label("phone ", focusPhone))
	b.WriteString(m.phone.View())
	b.WriteString("\n")

	b.WriteString(m.label("code  ", focusCode))
	b.WriteString(m.code.View())
	b.WriteString("  ")
	b.WriteString(m.button(snap.CodeButton, focusCodeButton))
	b.WriteString("\n\n")

	check := "[ ]"
	if snap.AgreementAccepted {
		check = accentStyle.Render("[x]")
	}
	b.WriteString(m.label("", focusAgreement))
	b.WriteString(check + " I agree to the user agreement and privacy policy")
	b.WriteString("\n\n")

	b.WriteString(m.button(snap.SubmitButton, focusSubmit))
	b.WriteString("\n")

	if m.toast != "" {
		b.WriteString("\n")
		b.WriteString(ui.Styles.Toast.Render(m.toast))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab: next · space: toggle · enter: confirm · esc: close"))

	return ui.Styles.Modal.Render(b.String())
}

func (m loginModel) label(text string, f focus) string {
	if m.focus == f {
		return ui.Styles.Focused.Render("› " + text)
	}
	return "  " + dimStyle.Render(text)
}

func (m loginModel) button(c login.Control, f focus) string {
	style := ui.Styles.Button
	if !c.Enabled {
		style = ui.Styles.ButtonOff
	}
	label := c.Label
	if m.focus == f {
		label = "› " + label
	}
	return style.Render(label)
}
