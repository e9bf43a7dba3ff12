package views

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/lvyanru/actctl/internal/cli/notify"
	"github.com/lvyanru/actctl/internal/cli/types"
)

// Detail page messages
const (
	MsgMissingID        = "missing activity id"
	MsgDetailFailed     = "failed to load activity detail"
	MsgAgreementMissing = "please accept the user agreement and privacy policy"
	MsgClaimed          = "claimed"

	DefaultDetailTitle = "activity detail"
)

// DetailState is what the detail page shows
type DetailState struct {
	Phase       Phase
	ID          string
	Title       string
	TopImage    string
	BottomImage string
}

// DetailView shows one activity
type DetailView struct {
	api      ActivityReader
	nav      Navigator
	notifier notify.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	state  DetailState
	render hooks[DetailState]
}

// NewDetailView creates the detail controller
func NewDetailView(api ActivityReader, nav Navigator, notifier notify.Notifier, logger *slog.Logger) *DetailView {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailView{api: api, nav: nav, notifier: notifier, logger: logger}
}

// OnRender registers a render hook
func (v *DetailView) OnRender(fn func(DetailState)) {
	v.mu.Lock()
	v.render = append(v.render, fn)
	v.mu.Unlock()
}

// State returns the current render state
func (v *DetailView) State() DetailState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Load reads the activity id from the page query and renders the activity.
// A 401 is not reported again here; the gateway already asked for login.
func (v *DetailView) Load(ctx context.Context, query url.Values) {
	id := strings.TrimSpace(query.Get("id"))
	if id == "" {
		v.set(DetailState{Phase: PhaseBlocked})
		v.notifier.Notify(MsgMissingID)
		return
	}

	v.set(DetailState{Phase: PhaseLoading, ID: id})

	res := v.api.GetActivity(ctx, id)
	activity, err := types.DecodeData[types.Activity](res)
	if !res.Success || err != nil {
		v.logger.DebugContext(ctx, "activity detail failed", "id", id, "status", res.Status, "error", err)
		v.set(DetailState{Phase: PhaseFailed, ID: id})
		if !res.SessionExpired() {
			v.notifier.Notify(res.MessageOr(MsgDetailFailed))
		}
		return
	}

	state := DetailState{
		Phase:       PhaseReady,
		ID:          id,
		Title:       activity.Title,
		TopImage:    activity.DetailTopImage,
		BottomImage: activity.DetailBottomImage,
	}
	if state.Title == "" {
		state.Title = DefaultDetailTitle
	}
	if state.TopImage == "" {
		state.TopImage = types.DefaultDetailTopImage
	}
	if state.BottomImage == "" {
		state.BottomImage = types.DefaultDetailBottomImage
	}
	v.set(state)
}

// Back returns to the list page
func (v *DetailView) Back() {
	v.nav.Navigate(ListPage)
}

// Claim claims the activity's offer once the agreement is accepted
func (v *DetailView) Claim(agreed bool) bool {
	if !agreed {
		v.notifier.Notify(MsgAgreementMissing)
		return false
	}
	v.notifier.Notify(MsgClaimed)
	return true
}

func (v *DetailView) set(state DetailState) {
	v.mu.Lock()
	v.state = state
	render := append(hooks[DetailState](nil), v.render...)
	v.mu.Unlock()

	render.emit(state)
}
