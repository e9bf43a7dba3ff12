// Package views holds the page controllers of the activities site: the
// public list, the activity detail and the admin console.
//
// Controllers own no terminal code. They call the gateway, keep a render
// state and publish it to OnRender hooks; the CLI decides how to draw it.
package views

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/lvyanru/actctl/internal/cli/types"
)

// Pages
const (
	ListPage   = "index.html"
	DetailPage = "detail.html"
)

// Navigator moves between pages. Navigate replaces the current page, Open
// shows the target in a new context and keeps the current one.
type Navigator interface {
	Navigate(target string)
	Open(target string)
}

// NavigatorFunc adapts a single function to Navigator; Navigate and Open
// both call it with the target
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }
func (f NavigatorFunc) Open(target string)     { f(target) }

// DetailURL returns the detail page target for an activity
func DetailURL(id int64) string {
	return DetailPage + "?" + url.Values{"id": {strconv.FormatInt(id, 10)}}.Encode()
}

// ParseTarget splits a navigation target into its page and query
func ParseTarget(target string) (page string, query url.Values) {
	page, rawQuery, _ := strings.Cut(target, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	return page, query
}

// SessionVerifier reports whether the stored session is usable
type SessionVerifier interface {
	Verify(ctx context.Context) bool
}

// ActivityReader is the read side of the activities API
type ActivityReader interface {
	ListActivities(ctx context.Context) types.Result
	GetActivity(ctx context.Context, id string) types.Result
}

// ActivityAdmin is the full activities API used by the console
type ActivityAdmin interface {
	ActivityReader
	CreateActivity(ctx context.Context, req *types.CreateActivityRequest) types.Result
	DeleteActivity(ctx context.Context, id string) types.Result
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// hooks is a list of render callbacks guarded by the owner's mutex
type hooks[S any] []func(S)

func (h hooks[S]) emit(state S) {
	for _, fn := range h {
		fn(state)
	}
}
