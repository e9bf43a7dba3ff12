// Package login implements the phone + verification code login modal as a
// UI-independent state machine.
package login

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lvyanru/actctl/internal/cli/notify"
	"github.com/lvyanru/actctl/internal/cli/session"
	"github.com/lvyanru/actctl/internal/cli/types"
)

// Notifications shown by the flow
const (
	MsgPhoneRequired     = "please enter your phone number"
	MsgPhoneInvalid      = "please enter a valid phone number"
	MsgCodeRequired      = "please enter the verification code"
	MsgAgreementRequired = "please accept the user agreement and privacy policy"
	MsgCodeSent          = "verification code sent"
	MsgSendCodeFailed    = "failed to send verification code"
	MsgLoginSuccess      = "login successful"
	MsgLoginFailed       = "login failed"
	MsgTokenSaveFailed   = "failed to save login, please retry"
)

// Control labels
const (
	LabelGetCode    = "get code"
	LabelSubmit     = "confirm login"
	LabelSubmitting = "logging in..."
)

// CountdownSeconds is how long the code control stays disabled after a code was sent
const CountdownSeconds = 60

// State of the login flow
type State int

const (
	StateIdle State = iota
	StateCodeRequested
	StateSubmitting
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateCodeRequested:
		return "code-requested"
	case StateSubmitting:
		return "submitting"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "idle"
	}
}

// AuthAPI is the part of the gateway the flow calls
type AuthAPI interface {
	SendCode(ctx context.Context, phone string) types.Result
	Login(ctx context.Context, phone, code string) types.Result
}

// Control is a button's rendered state
type Control struct {
	Label   string
	Enabled bool
}

// Snapshot is the modal's full render state
type Snapshot struct {
	Visible            bool
	State              State
	Phone              string
	Code               string
	AgreementAccepted  bool
	CountdownRemaining int
	Submitting         bool
	CodeButton         Control
	SubmitButton       Control
}

// Flow is the login modal state machine.
//
// Idle -> CodeRequested -> Submitting -> Authenticated, or back to Idle on
// failure. The code and submit controls double as re-entrancy guards: while
// disabled, SendCode and Login return without sending anything.
type Flow struct {
	api      AuthAPI
	tokens   session.Store
	notifier notify.Notifier
	clock    clockwork.Clock
	logger   *slog.Logger

	mu         sync.Mutex
	visible    bool
	state      State
	phone      string
	code       string
	agreement  bool
	sending    bool
	submitting bool
	countdown  int
	task       *repeatTask
	taskGen    uint64

	listenerSeq     int
	listeners       map[int]func(Snapshot)
	onAuthenticated []func()
}

// Option configures a Flow
type Option func(*Flow)

// WithClock sets the clock driving the countdown
func WithClock(c clockwork.Clock) Option {
	return func(f *Flow) { f.clock = c }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

// NewFlow creates a hidden, idle flow
func NewFlow(api AuthAPI, tokens session.Store, notifier notify.Notifier, opts ...Option) *Flow {
	f := &Flow{
		api:       api,
		tokens:    tokens,
		notifier:  notifier,
		clock:     clockwork.NewRealClock(),
		logger:    slog.Default(),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnChange registers a render hook called with a snapshot after every
// transition. The returned function unregisters it.
func (f *Flow) OnChange(fn func(Snapshot)) (cancel func()) {
	f.mu.Lock()
	id := f.listenerSeq
	f.listenerSeq++
	f.listeners[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// OnAuthenticated registers a hook run after a successful login, used to
// refresh views that depend on the session
func (f *Flow) OnAuthenticated(fn func()) {
	f.mu.Lock()
	f.onAuthenticated = append(f.onAuthenticated, fn)
	f.mu.Unlock()
}

// Snapshot returns the current render state
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Visible reports whether the modal is open
func (f *Flow) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Show opens the modal
func (f *Flow) Show() {
	f.mu.Lock()
	if f.visible {
		f.mu.Unlock()
		return
	}
	f.visible = true
	if f.state == StateAuthenticated {
		f.state = StateIdle
	}
	f.commit()
}

// Hide closes the modal, resets every field and cancels a running countdown
func (f *Flow) Hide() {
	f.mu.Lock()
	f.visible = false
	f.phone = ""
	f.code = ""
	f.agreement = false
	f.submitting = false
	f.stopCountdownLocked()
	if f.state != StateAuthenticated {
		f.state = StateIdle
	}
	f.commit()
}

// SetPhone updates the phone input
func (f *Flow) SetPhone(phone string) {
	f.mu.Lock()
	f.phone = phone
	f.commit()
}

// SetCode updates the code input
func (f *Flow) SetCode(code string) {
	f.mu.Lock()
	f.code = code
	f.commit()
}

// SetAgreement updates the agreement checkbox
func (f *Flow) SetAgreement(accepted bool) {
	f.mu.Lock()
	f.agreement = accepted
	f.commit()
}

// ValidatePhone checks input and shows a notification when it is not a valid
// mobile number. It never changes state.
func (f *Flow) ValidatePhone(input string) bool {
	if msg := checkPhone(input); msg != "" {
		f.notifier.Notify(msg)
		return false
	}
	return true
}

// SendCode requests a verification code for the current phone and starts the
// countdown on success. It reports whether a code was sent.
func (f *Flow) SendCode(ctx context.Context) bool {
	f.mu.Lock()
	if f.sending || f.task != nil {
		f.mu.Unlock()
		return false
	}
	phone := strings.TrimSpace(f.phone)
	f.mu.Unlock()

	if !f.ValidatePhone(phone) {
		return false
	}

	f.mu.Lock()
	if f.sending || f.task != nil {
		f.mu.Unlock()
		return false
	}
	f.sending = true
	gen := f.taskGen
	f.commit()

	res := f.api.SendCode(ctx, phone)

	f.mu.Lock()
	f.sending = false
	if !res.Success {
		f.commit()
		f.notifier.Notify(res.MessageOr(MsgSendCodeFailed))
		return false
	}
	// Hide ran while the request was in flight: the next Show starts clean
	if gen != f.taskGen {
		f.commit()
		f.logger.DebugContext(ctx, "verification code sent after the modal closed")
		return true
	}
	f.state = StateCodeRequested
	f.startCountdownLocked()
	f.commit()

	f.notifier.Notify(MsgCodeSent)
	if data, err := types.DecodeData[types.SendCodeData](res); err == nil && data.Code != "" {
		f.logger.DebugContext(ctx, "verification code echoed by server", "code", data.Code)
	}
	return true
}

// Login submits phone and code. On success the token is stored, the modal
// hides and the authenticated hooks run. It reports whether login succeeded.
func (f *Flow) Login(ctx context.Context) bool {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return false
	}
	phone := strings.TrimSpace(f.phone)
	code := strings.TrimSpace(f.code)
	agreed := f.agreement
	f.mu.Unlock()

	if !f.ValidatePhone(phone) {
		return false
	}
	if code == "" {
		f.notifier.Notify(MsgCodeRequired)
		return false
	}
	if !agreed {
		f.notifier.Notify(MsgAgreementRequired)
		return false
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return false
	}
	f.submitting = true
	f.state = StateSubmitting
	f.commit()

	res := f.api.Login(ctx, phone, code)

	f.mu.Lock()
	f.submitting = false
	f.state = StateIdle
	f.commit()

	data, err := types.DecodeData[types.LoginData](res)
	if !res.Success || err != nil || data.Token == "" {
		f.notifier.Notify(res.MessageOr(MsgLoginFailed))
		return false
	}

	if err := f.tokens.Set(data.Token); err != nil {
		f.logger.ErrorContext(ctx, "failed to persist token", "error", err)
		f.notifier.Notify(MsgTokenSaveFailed)
		return false
	}

	f.mu.Lock()
	f.state = StateAuthenticated
	hooks := append([]func(){}, f.onAuthenticated...)
	f.mu.Unlock()

	f.notifier.Notify(MsgLoginSuccess)
	f.Hide()
	for _, hook := range hooks {
		hook()
	}
	return true
}

// Logout forgets the stored token
func (f *Flow) Logout() error {
	return f.tokens.Remove()
}

func (f *Flow) startCountdownLocked() {
	f.stopCountdownLocked()
	f.countdown = CountdownSeconds
	gen := f.taskGen
	f.task = startRepeat(f.clock, time.Second, func() { f.tick(gen) })
}

// stopCountdownLocked cancels the task; bumping the generation makes any
// tick already in flight a no-op
func (f *Flow) stopCountdownLocked() {
	if f.task != nil {
		f.task.Cancel()
		f.task = nil
	}
	f.taskGen++
	f.countdown = 0
}

func (f *Flow) tick(gen uint64) {
	f.mu.Lock()
	if gen != f.taskGen || f.task == nil {
		f.mu.Unlock()
		return
	}
	f.countdown--
	if f.countdown <= 0 {
		f.stopCountdownLocked()
	}
	f.commit()
}

// commit snapshots the state, releases the lock and runs the render hooks.
// Must be called with f.mu held.
func (f *Flow) commit() {
	snap := f.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (f *Flow) snapshotLocked() Snapshot {
	codeButton := Control{Label: LabelGetCode, Enabled: !f.sending && f.task == nil}
	if f.task != nil {
		codeButton.Label = retryLabel(f.countdown)
	}

	submitButton := Control{Label: LabelSubmit, Enabled: !f.submitting}
	if f.submitting {
		submitButton.Label = LabelSubmitting
	}

	return Snapshot{
		Visible:            f.visible,
		State:              f.state,
		Phone:              f.phone,
		Code:               f.code,
		AgreementAccepted:  f.agreement,
		CountdownRemaining: f.countdown,
		Submitting:         f.submitting,
		CodeButton:         codeButton,
		SubmitButton:       submitButton,
	}
}
