package views

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/lvyanru/actctl/internal/cli/loader"
	"github.com/lvyanru/actctl/internal/cli/notify"
	"github.com/lvyanru/actctl/internal/cli/types"
)

// Admin console messages
const (
	MsgAdminLoadFailed = "failed to load activities"
	MsgAdminEmpty      = "no activities yet"
	MsgDeleted         = "deleted"
	MsgDeleteFailed    = "delete failed"
	MsgTitleRequired   = "please enter a title"
	MsgSaved           = "saved"
	MsgSaveFailed      = "save failed"
)

// Item is one row of the admin list
type Item struct {
	ID    int64
	Title string
	Time  string
}

// AdminState is what the console's list shows
type AdminState struct {
	Phase   Phase
	Message string
	Items   []Item
}

// Form is the create form. Every field is free text.
type Form struct {
	Title             string
	BgImage           string
	StartTime         string
	EndTime           string
	DetailTopImage    string
	DetailBottomImage string
}

// AdminConsole lists, creates and deletes activities
type AdminConsole struct {
	api       ActivityAdmin
	nav       Navigator
	confirmer Confirmer
	notifier  notify.Notifier
	validate  *validator.Validate
	logger    *slog.Logger

	mu     sync.Mutex
	state  AdminState
	form   Form
	render hooks[AdminState]
}

// NewAdminConsole creates the console controller
func NewAdminConsole(api ActivityAdmin, nav Navigator, confirmer Confirmer, notifier notify.Notifier, logger *slog.Logger) *AdminConsole {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminConsole{
		api:       api,
		nav:       nav,
		confirmer: confirmer,
		notifier:  notifier,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

// OnRender registers a render hook for the list
func (c *AdminConsole) OnRender(fn func(AdminState)) {
	c.mu.Lock()
	c.render = append(c.render, fn)
	c.mu.Unlock()
}

// State returns the list's render state
func (c *AdminConsole) State() AdminState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches and renders the activity list
func (c *AdminConsole) Load(ctx context.Context) {
	res := c.api.ListActivities(ctx)
	activities, err := types.DecodeData[[]types.Activity](res)
	if !res.Success || err != nil {
		c.logger.DebugContext(ctx, "admin list failed", "status", res.Status, "error", err)
		c.set(AdminState{Phase: PhaseFailed, Message: MsgAdminLoadFailed})
		return
	}
	if len(activities) == 0 {
		c.set(AdminState{Phase: PhaseEmpty, Message: MsgAdminEmpty})
		return
	}

	items := make([]Item, 0, len(activities))
	for _, a := range activities {
		items = append(items, Item{ID: a.ID, Title: a.Title, Time: a.Time})
	}
	c.set(AdminState{Phase: PhaseReady, Items: items})
}

// OpenDetail shows an activity's detail page in a new context
func (c *AdminConsole) OpenDetail(id int64) {
	c.nav.Open(DetailURL(id))
}

// Delete removes an activity after confirmation and reloads on success. It
// reports whether the activity was deleted.
func (c *AdminConsole) Delete(ctx context.Context, id int64) bool {
	if !c.confirmer.Confirm(fmt.Sprintf("delete activity %d?", id)) {
		return false
	}

	res := c.api.DeleteActivity(ctx, strconv.FormatInt(id, 10))
	if !res.Success {
		c.notifier.Notify(res.MessageOr(MsgDeleteFailed))
		return false
	}

	c.notifier.Notify(MsgDeleted)
	c.Load(ctx)
	return true
}

// SetForm replaces the form contents
func (c *AdminConsole) SetForm(form Form) {
	c.mu.Lock()
	c.form = form
	c.mu.Unlock()
}

// Form returns the form contents
func (c *AdminConsole) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// ImportFile fills the form from a YAML activity file
func (c *AdminConsole) ImportFile(path string) error {
	file, err := loader.LoadFromFile(path)
	if err != nil {
		return err
	}
	req, err := file.ToCreateRequest()
	if err != nil {
		return err
	}

	c.SetForm(Form{
		Title:             req.Title,
		BgImage:           req.BgImage,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		DetailTopImage:    req.DetailTopImage,
		DetailBottomImage: req.DetailBottomImage,
	})
	return nil
}

// Create submits the form. On success the form is cleared and the list
// reloaded. It reports whether the activity was saved.
func (c *AdminConsole) Create(ctx context.Context) bool {
	form := c.Form()
	req := &types.CreateActivityRequest{
		Title:             strings.TrimSpace(form.Title),
		BgImage:           strings.TrimSpace(form.BgImage),
		StartTime:         strings.TrimSpace(form.StartTime),
		EndTime:           strings.TrimSpace(form.EndTime),
		DetailTopImage:    strings.TrimSpace(form.DetailTopImage),
		DetailBottomImage: strings.TrimSpace(form.DetailBottomImage),
	}

	if err := c.validate.Struct(req); err != nil {
		c.logger.DebugContext(ctx, "create form rejected", "error", err)
		c.notifier.Notify(MsgTitleRequired)
		return false
	}
	req.ApplyImageDefaults()

	res := c.api.CreateActivity(ctx, req)
	if !res.Success {
		c.notifier.Notify(res.MessageOr(MsgSaveFailed))
		return false
	}

	c.notifier.Notify(MsgSaved)
	c.SetForm(Form{})
	c.Load(ctx)
	return true
}

func (c *AdminConsole) set(state AdminState) {
	c.mu.Lock()
	c.state = state
	render := append(hooks[AdminState](nil), c.render...)
	c.mu.Unlock()

	render.emit(state)
}
