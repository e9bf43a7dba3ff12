package views

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/actctl/internal/cli/types"
)

const twoActivities = `{"success":true,"data":[{"id":5,"title":"A","time":"T"},{"id":6,"title":"B"}]}`

func newConsole(f *siteFixture, confirm bool) (*AdminConsole, *[]string) {
	var asked []string
	confirmer := ConfirmFunc(func(message string) bool {
		asked = append(asked, message)
		return confirm
	})
	return NewAdminConsole(f.gateway, f.nav, confirmer, f.notifier, nil), &asked
}

func TestAdminConsoleLoad(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantPhase Phase
		wantMsg   string
		wantItems []Item
	}{
		{
			name:      "items",
			status:    http.StatusOK,
			body:      twoActivities,
			wantPhase: PhaseReady,
			wantItems: []Item{{ID: 5, Title: "A", Time: "T"}, {ID: 6, Title: "B"}},
		},
		{name: "empty", status: http.StatusOK, body: `{"success":true,"data":[]}`, wantPhase: PhaseEmpty, wantMsg: MsgAdminEmpty},
		{name: "not an array", status: http.StatusOK, body: `{"success":true,"data":{"id":1}}`, wantPhase: PhaseFailed, wantMsg: MsgAdminLoadFailed},
		{name: "failure", status: http.StatusBadGateway, body: `{"detail":"down"}`, wantPhase: PhaseFailed, wantMsg: MsgAdminLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSiteFixture(t, map[string]response{
				"GET /api/activities": {status: tt.status, body: tt.body},
			})
			c, _ := newConsole(f, true)

			c.Load(context.Background())

			state := c.State()
			assert.Equal(t, tt.wantPhase, state.Phase)
			assert.Equal(t, tt.wantMsg, state.Message)
			assert.Equal(t, tt.wantItems, state.Items)
		})
	}
}

func TestAdminConsoleOpenDetail(t *testing.T) {
	f := newSiteFixture(t, map[string]response{})
	c, _ := newConsole(f, true)

	c.OpenDetail(5)

	assert.Equal(t, []string{"detail.html?id=5"}, f.nav.open)
	assert.Empty(t, f.nav.navigate)
}

func TestAdminConsoleDelete(t *testing.T) {
	f := newSiteFixture(t, map[string]response{
		"GET /api/activities":      {status: http.StatusOK, body: twoActivities},
		"DELETE /api/activities/5": {status: http.StatusOK, body: `{"success":true,"data":{"id":5}}`},
	})
	c, asked := newConsole(f, true)

	require.True(t, c.Delete(context.Background(), 5))

	assert.Equal(t, []string{"delete activity 5?"}, *asked)
	assert.Equal(t, []string{MsgDeleted}, f.notifier.Messages())
	assert.Equal(t, 1, f.site.count(http.MethodGet, "/api/activities"), "list reloaded")
}

func TestAdminConsoleDeleteDeclined(t *testing.T) {
	f := newSiteFixture(t, map[string]response{})
	c, asked := newConsole(f, false)

	assert.False(t, c.Delete(context.Background(), 5))

	assert.Len(t, *asked, 1)
	assert.Zero(t, f.site.count(http.MethodDelete, "/api/activities/5"))
	assert.Empty(t, f.notifier.Messages())
}

func TestAdminConsoleDeleteFailure(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "server message", body: `{"success":false,"message":"not found"}`, wantMsg: "not found"},
		{name: "default message", body: `{"success":false}`, wantMsg: MsgDeleteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSiteFixture(t, map[string]response{
				"GET /api/activities":      {status: http.StatusOK, body: twoActivities},
				"DELETE /api/activities/5": {status: http.StatusOK, body: tt.body},
			})
			c, _ := newConsole(f, true)

			assert.False(t, c.Delete(context.Background(), 5))

			assert.Equal(t, []string{tt.wantMsg}, f.notifier.Messages())
			assert.Zero(t, f.site.count(http.MethodGet, "/api/activities"), "no reload")
		})
	}
}

func TestAdminConsoleCreateAppliesDefaults(t *testing.T) {
	f := newSiteFixture(t, map[string]response{
		"GET /api/activities":  {status: http.StatusOK, body: twoActivities},
		"POST /api/activities": {status: http.StatusOK, body: `{"success":true,"data":{"id":7,"title":"New"}}`},
	})
	c, _ := newConsole(f, true)
	c.SetForm(Form{Title: "  New  ", StartTime: " 2025-01-01 ", BgImage: "   "})

	require.True(t, c.Create(context.Background()))

	var sent types.CreateActivityRequest
	require.NoError(t, sonic.UnmarshalString(f.site.last(t, http.MethodPost, "/api/activities").Body, &sent))
	assert.Equal(t, types.CreateActivityRequest{
		Title:             "New",
		BgImage:           types.DefaultBgImage,
		StartTime:         "2025-01-01",
		DetailTopImage:    types.DefaultDetailTopImage,
		DetailBottomImage: types.DefaultDetailBottomImage,
	}, sent)

	assert.Equal(t, []string{MsgSaved}, f.notifier.Messages())
	assert.Equal(t, Form{}, c.Form(), "form cleared")
	assert.Equal(t, PhaseReady, c.State().Phase, "list reloaded")
}

func TestAdminConsoleCreateRequiresTitle(t *testing.T) {
	f := newSiteFixture(t, map[string]response{})
	c, _ := newConsole(f, true)
	c.SetForm(Form{Title: "   ", BgImage: "../x.png"})

	assert.False(t, c.Create(context.Background()))

	assert.Equal(t, []string{MsgTitleRequired}, f.notifier.Messages())
	assert.Zero(t, f.site.count(http.MethodPost, "/api/activities"))
	assert.Equal(t, "../x.png", c.Form().BgImage, "form kept")
}

func TestAdminConsoleCreateFailure(t *testing.T) {
	f := newSiteFixture(t, map[string]response{
		"POST /api/activities": {status: http.StatusUnprocessableEntity, body: `{"detail":[{"loc":["body","title"],"msg":"field required"}]}`},
	})
	c, _ := newConsole(f, true)
	c.SetForm(Form{Title: "New"})

	assert.False(t, c.Create(context.Background()))

	assert.Equal(t, []string{`[{"loc":["body","title"],"msg":"field required"}]`}, f.notifier.Messages())
	assert.Equal(t, "New", c.Form().Title, "form kept for retry")
	assert.Zero(t, f.site.count(http.MethodGet, "/api/activities"))
}

func TestAdminConsoleImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: Activity\nspec:\n  title: Imported\n  endTime: \"2025-12-31\"\n"), 0o600))

	f := newSiteFixture(t, map[string]response{})
	c, _ := newConsole(f, true)

	require.NoError(t, c.ImportFile(path))
	assert.Equal(t, Form{Title: "Imported", EndTime: "2025-12-31"}, c.Form())

	assert.Error(t, c.ImportFile(filepath.Join(t.TempDir(), "missing.yaml")))
}
