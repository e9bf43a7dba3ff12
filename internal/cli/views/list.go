package views

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lvyanru/actctl/internal/cli/types"
)

// List placeholders and card defaults
const (
	MsgListLoading = "loading..."
	MsgListEmpty   = "no activities yet"
	MsgListFailed  = "failed to load, please retry"

	BannerTitle = "video membership new year event"
	DefaultTag  = "3-day trial of video membership"
)

// Phase of a page
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseEmpty
	PhaseFailed
	// PhaseBlocked means the page cannot load, e.g. no session or a missing id
	PhaseBlocked
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseEmpty:
		return "empty"
	case PhaseFailed:
		return "failed"
	case PhaseBlocked:
		return "blocked"
	default:
		return "idle"
	}
}

// Card is one activity on the list page
type Card struct {
	ID      int64
	Title   string
	Time    string
	Tag     string
	BgImage string
}

// ListState is what the list page shows. Message is the placeholder text
// for every phase but PhaseReady.
type ListState struct {
	Phase   Phase
	Message string
	Cards   []Card
}

// ListView is the public activity list
type ListView struct {
	api      ActivityReader
	verifier SessionVerifier
	nav      Navigator
	logger   *slog.Logger

	mu     sync.Mutex
	state  ListState
	render hooks[ListState]
}

// NewListView creates the list controller
func NewListView(api ActivityReader, verifier SessionVerifier, nav Navigator, logger *slog.Logger) *ListView {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListView{api: api, verifier: verifier, nav: nav, logger: logger}
}

// OnRender registers a render hook
func (v *ListView) OnRender(fn func(ListState)) {
	v.mu.Lock()
	v.render = append(v.render, fn)
	v.mu.Unlock()
}

// State returns the current render state
func (v *ListView) State() ListState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Start verifies the session and loads the list when it is valid. Without a
// valid session the page stays blocked; the verifier has already asked for login.
func (v *ListView) Start(ctx context.Context) bool {
	if !v.verifier.Verify(ctx) {
		v.set(ListState{Phase: PhaseBlocked})
		return false
	}
	v.Load(ctx)
	return true
}

// Load fetches and renders the activities
func (v *ListView) Load(ctx context.Context) {
	v.set(ListState{Phase: PhaseLoading, Message: MsgListLoading})

	res := v.api.ListActivities(ctx)
	if !res.Success {
		v.logger.DebugContext(ctx, "activity list failed", "status", res.Status, "message", res.Message)
		v.set(ListState{Phase: PhaseFailed, Message: MsgListFailed})
		return
	}

	activities, err := types.DecodeData[[]types.Activity](res)
	if err != nil {
		v.logger.WarnContext(ctx, "unexpected activity list payload", "error", err)
		v.set(ListState{Phase: PhaseFailed, Message: MsgListFailed})
		return
	}
	if len(activities) == 0 {
		v.set(ListState{Phase: PhaseEmpty, Message: MsgListEmpty})
		return
	}

	cards := make([]Card, 0, len(activities))
	for _, a := range activities {
		tag := a.Tag
		if tag == "" {
			tag = DefaultTag
		}
		cards = append(cards, Card{ID: a.ID, Title: a.Title, Time: a.Time, Tag: tag, BgImage: a.BgImage})
	}
	v.set(ListState{Phase: PhaseReady, Cards: cards})
}

// Open navigates to the detail page of an activity
func (v *ListView) Open(id int64) {
	v.nav.Navigate(DetailURL(id))
}

func (v *ListView) set(state ListState) {
	v.mu.Lock()
	v.state = state
	render := append(hooks[ListState](nil), v.render...)
	v.mu.Unlock()

	render.emit(state)
}
