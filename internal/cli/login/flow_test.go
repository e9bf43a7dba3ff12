package login

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/actctl/internal/cli/notify"
	"github.com/lvyanru/actctl/internal/cli/session"
	"github.com/lvyanru/actctl/internal/cli/types"
)

const validPhone = "13800138000"

// fakeAuthAPI is a Func-field mock of AuthAPI
type fakeAuthAPI struct {
	SendCodeFunc func(ctx context.Context, phone string) types.Result
	LoginFunc    func(ctx context.Context, phone, code string) types.Result

	sendCalls  atomic.Int32
	loginCalls atomic.Int32
}

func (m *fakeAuthAPI) SendCode(ctx context.Context, phone string) types.Result {
	m.sendCalls.Add(1)
	if m.SendCodeFunc != nil {
		return m.SendCodeFunc(ctx, phone)
	}
	return types.Result{Success: true, Status: 200, Data: []byte(`{"code":"123456"}`)}
}

func (m *fakeAuthAPI) Login(ctx context.Context, phone, code string) types.Result {
	m.loginCalls.Add(1)
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, phone, code)
	}
	return types.Result{Success: true, Status: 200, Data: []byte(`{"token":"jwt-token"}`)}
}

type flowFixture struct {
	flow     *Flow
	api      *fakeAuthAPI
	tokens   *session.MemoryStore
	notifier *notify.Recorder
	clock    *clockwork.FakeClock
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	f := &flowFixture{
		api:      &fakeAuthAPI{},
		tokens:   session.NewMemoryStore(),
		notifier: &notify.Recorder{},
		clock:    clockwork.NewFakeClock(),
	}
	f.flow = NewFlow(f.api, f.tokens, f.notifier, WithClock(f.clock))
	f.flow.Show()
	t.Cleanup(f.flow.Hide)
	return f
}

func (f *flowFixture) fill(phone, code string, agreed bool) {
	f.flow.SetPhone(phone)
	f.flow.SetCode(code)
	f.flow.SetAgreement(agreed)
}

// advance moves the fake clock one second once the countdown ticker is
// waiting and waits for the tick to be applied
func (f *flowFixture) advance(t *testing.T, wantRemaining int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))

	f.clock.Advance(time.Second)
	require.Eventually(t, func() bool {
		return f.flow.Snapshot().CountdownRemaining == wantRemaining
	}, time.Second, time.Millisecond, "countdown should reach %d", wantRemaining)
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantMsg string
	}{
		{input: "13800138000", want: true},
		{input: " 19912345678 ", want: true},
		{input: "", want: false, wantMsg: MsgPhoneRequired},
		{input: "   ", want: false, wantMsg: MsgPhoneRequired},
		{input: "12345", want: false, wantMsg: MsgPhoneInvalid},
		{input: "23800138000", want: false, wantMsg: MsgPhoneInvalid},
		{input: "12800138000", want: false, wantMsg: MsgPhoneInvalid},
		{input: "138001380001", want: false, wantMsg: MsgPhoneInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := newFlowFixture(t)
			before := f.flow.Snapshot()

			assert.Equal(t, tt.want, f.flow.ValidatePhone(tt.input))
			assert.Equal(t, tt.wantMsg, f.notifier.Last())
			assert.Equal(t, before, f.flow.Snapshot(), "validation never changes state")
		})
	}
}

func TestSendCodeInvalidPhoneMakesNoCall(t *testing.T) {
	for _, phone := range []string{"", "12345", "23800138000"} {
		f := newFlowFixture(t)
		f.flow.SetPhone(phone)

		assert.False(t, f.flow.SendCode(context.Background()))
		assert.Zero(t, f.api.sendCalls.Load(), "phone %q", phone)
		assert.True(t, f.flow.Snapshot().CodeButton.Enabled)
	}
}

func TestSendCodeCountdown(t *testing.T) {
	f := newFlowFixture(t)
	f.flow.SetPhone(validPhone)

	require.True(t, f.flow.SendCode(context.Background()))
	assert.Equal(t, MsgCodeSent, f.notifier.Last())

	snap := f.flow.Snapshot()
	assert.Equal(t, StateCodeRequested, snap.State)
	assert.Equal(t, CountdownSeconds, snap.CountdownRemaining)
	assert.False(t, snap.CodeButton.Enabled)

	assert.False(t, f.flow.SendCode(context.Background()), "disabled while counting down")
	assert.Equal(t, int32(1), f.api.sendCalls.Load())

	f.advance(t, 59)
	assert.Equal(t, "retry in 59s", f.flow.Snapshot().CodeButton.Label)

	for remaining := 58; remaining >= 0; remaining-- {
		f.advance(t, remaining)
	}

	snap = f.flow.Snapshot()
	assert.Equal(t, Control{Label: LabelGetCode, Enabled: true}, snap.CodeButton)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 0), "ticker stopped at zero")

	require.True(t, f.flow.SendCode(context.Background()), "re-enabled")
	assert.Equal(t, int32(2), f.api.sendCalls.Load())
}

func TestHideCancelsCountdown(t *testing.T) {
	f := newFlowFixture(t)
	f.flow.SetPhone(validPhone)
	require.True(t, f.flow.SendCode(context.Background()))
	f.advance(t, 59)

	var changes atomic.Int32
	cancelListener := f.flow.OnChange(func(Snapshot) { changes.Add(1) })
	defer cancelListener()

	f.flow.Hide()
	assert.Equal(t, int32(1), changes.Load())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 0), "ticker stopped on hide")

	f.clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)

	snap := f.flow.Snapshot()
	assert.Equal(t, int32(1), changes.Load(), "no tick after hide")
	assert.Zero(t, snap.CountdownRemaining)
	assert.True(t, snap.CodeButton.Enabled)
	assert.False(t, snap.Visible)
	assert.Empty(t, snap.Phone)
}

func TestHideDuringSendCodeSkipsCountdown(t *testing.T) {
	f := newFlowFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.api.SendCodeFunc = func(context.Context, string) types.Result {
		close(started)
		<-release
		return types.Result{Success: true, Status: 200}
	}

	f.flow.Show()
	f.flow.SetPhone(validPhone)

	done := make(chan bool)
	go func() { done <- f.flow.SendCode(context.Background()) }()
	<-started
	f.flow.Hide()
	close(release)
	assert.True(t, <-done)

	f.flow.Show()
	snap := f.flow.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Zero(t, snap.CountdownRemaining)
	assert.Equal(t, Control{Label: LabelGetCode, Enabled: true}, snap.CodeButton)
	assert.Empty(t, snap.Phone)
	assert.NotContains(t, f.notifier.Messages(), MsgCodeSent)
}

func TestSendCodeFailure(t *testing.T) {
	tests := []struct {
		name    string
		result  types.Result
		wantMsg string
	}{
		{
			name:    "server message",
			result:  types.Result{Status: 400, Message: "please enter a valid phone"},
			wantMsg: "please enter a valid phone",
		},
		{
			name:    "default message",
			result:  types.Result{Status: 0},
			wantMsg: MsgSendCodeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFlowFixture(t)
			f.api.SendCodeFunc = func(context.Context, string) types.Result { return tt.result }
			f.flow.SetPhone(validPhone)

			assert.False(t, f.flow.SendCode(context.Background()))
			assert.Equal(t, tt.wantMsg, f.notifier.Last())

			snap := f.flow.Snapshot()
			assert.Zero(t, snap.CountdownRemaining)
			assert.True(t, snap.CodeButton.Enabled)
			assert.Equal(t, StateIdle, snap.State)
		})
	}
}

func TestLoginPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		code    string
		agreed  bool
		wantMsg string
	}{
		{name: "missing phone", phone: "", code: "123456", agreed: true, wantMsg: MsgPhoneRequired},
		{name: "invalid phone", phone: "12345", code: "123456", agreed: true, wantMsg: MsgPhoneInvalid},
		{name: "missing code", phone: validPhone, code: "  ", agreed: true, wantMsg: MsgCodeRequired},
		{name: "agreement not accepted", phone: validPhone, code: "123456", agreed: false, wantMsg: MsgAgreementRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFlowFixture(t)
			f.fill(tt.phone, tt.code, tt.agreed)

			assert.False(t, f.flow.Login(context.Background()))
			assert.Equal(t, []string{tt.wantMsg}, f.notifier.Messages())
			assert.Zero(t, f.api.loginCalls.Load())
			assert.False(t, f.tokens.Has())
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	f := newFlowFixture(t)
	var gotPhone, gotCode string
	f.api.LoginFunc = func(_ context.Context, phone, code string) types.Result {
		gotPhone, gotCode = phone, code
		return types.Result{Success: true, Status: 200, Data: []byte(`{"token":"jwt-token","user":{"phone":"13800138000"}}`)}
	}
	var refreshed atomic.Int32
	f.flow.OnAuthenticated(func() { refreshed.Add(1) })

	f.flow.SetPhone(validPhone)
	require.True(t, f.flow.SendCode(context.Background()))
	f.fill(" "+validPhone+" ", " 123456 ", true)

	require.True(t, f.flow.Login(context.Background()))

	assert.Equal(t, validPhone, gotPhone)
	assert.Equal(t, "123456", gotCode)
	token, ok := f.tokens.Get()
	require.True(t, ok)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, MsgLoginSuccess, f.notifier.Last())
	assert.Equal(t, int32(1), refreshed.Load())

	snap := f.flow.Snapshot()
	assert.False(t, snap.Visible)
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Empty(t, snap.Phone)
	assert.Empty(t, snap.Code)
	assert.False(t, snap.AgreementAccepted)
	assert.Zero(t, snap.CountdownRemaining, "countdown cancelled by hide")
}

func TestLoginFailure(t *testing.T) {
	tests := []struct {
		name    string
		result  types.Result
		wantMsg string
	}{
		{
			name:    "server message",
			result:  types.Result{Status: 400, Message: "wrong verification code"},
			wantMsg: "wrong verification code",
		},
		{
			name:    "success without token",
			result:  types.Result{Success: true, Status: 200, Data: []byte(`{"user":{}}`)},
			wantMsg: MsgLoginFailed,
		},
		{
			name:    "transport failure without message",
			result:  types.Result{},
			wantMsg: MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFlowFixture(t)
			f.api.LoginFunc = func(context.Context, string, string) types.Result { return tt.result }
			f.fill(validPhone, "123456", true)

			assert.False(t, f.flow.Login(context.Background()))
			assert.Equal(t, tt.wantMsg, f.notifier.Last())
			assert.False(t, f.tokens.Has())

			snap := f.flow.Snapshot()
			assert.True(t, snap.Visible, "modal stays open")
			assert.Equal(t, StateIdle, snap.State)
			assert.Equal(t, Control{Label: LabelSubmit, Enabled: true}, snap.SubmitButton)
			assert.Equal(t, validPhone, snap.Phone, "input kept for retry")
		})
	}
}

func TestLoginRejectsReentry(t *testing.T) {
	f := newFlowFixture(t)
	release := make(chan struct{})
	f.api.LoginFunc = func(context.Context, string, string) types.Result {
		<-release
		return types.Result{Success: true, Status: 200, Data: []byte(`{"token":"t"}`)}
	}
	f.fill(validPhone, "123456", true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.flow.Login(context.Background())
	}()

	require.Eventually(t, func() bool { return f.flow.Snapshot().Submitting }, time.Second, time.Millisecond)
	snap := f.flow.Snapshot()
	assert.Equal(t, StateSubmitting, snap.State)
	assert.Equal(t, Control{Label: LabelSubmitting, Enabled: false}, snap.SubmitButton)

	assert.False(t, f.flow.Login(context.Background()))

	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), f.api.loginCalls.Load())
	assert.True(t, f.tokens.Has())
}

func TestShowHide(t *testing.T) {
	f := newFlowFixture(t)
	var snaps []Snapshot
	var mu sync.Mutex
	cancel := f.flow.OnChange(func(s Snapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	f.fill(validPhone, "123456", true)
	f.flow.Hide()
	cancel()
	f.flow.Show()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snaps, 4, "three setters and hide; show after cancel is not observed")
	last := snaps[len(snaps)-1]
	assert.False(t, last.Visible)
	assert.Empty(t, last.Phone)
	assert.Empty(t, last.Code)
	assert.False(t, last.AgreementAccepted)
	assert.True(t, f.flow.Visible())
}

func TestLogout(t *testing.T) {
	f := newFlowFixture(t)
	require.NoError(t, f.tokens.Set("t"))

	require.NoError(t, f.flow.Logout())
	assert.False(t, f.tokens.Has())
}
