package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/actctl/internal/cli/types"
)

// SendCode requests a verification code for phone
func (g *Gateway) SendCode(ctx context.Context, phone string) types.Result {
	return g.Request(ctx, endpointSendCode, &RequestOptions{
		Method: consts.MethodPost,
		Body:   types.SendCodeRequest{Phone: phone},
	})
}

// Login exchanges phone and code for a token (types.LoginData)
func (g *Gateway) Login(ctx context.Context, phone, code string) types.Result {
	return g.Request(ctx, endpointLogin, &RequestOptions{
		Method: consts.MethodPost,
		Body:   types.LoginRequest{Phone: phone, Code: code},
	})
}

// VerifyToken checks the stored token with the server
func (g *Gateway) VerifyToken(ctx context.Context) types.Result {
	return g.Request(ctx, endpointVerifyToken, nil)
}

// ListActivities fetches all activities ([]types.Activity)
func (g *Gateway) ListActivities(ctx context.Context) types.Result {
	return g.Request(ctx, endpointActivities, nil)
}

// GetActivity fetches one activity (types.Activity)
func (g *Gateway) GetActivity(ctx context.Context, id string) types.Result {
	return g.Request(ctx, activityPath(id), nil)
}

// CreateActivity creates an activity and returns the created types.Activity
func (g *Gateway) CreateActivity(ctx context.Context, req *types.CreateActivityRequest) types.Result {
	return g.Request(ctx, endpointActivities, &RequestOptions{
		Method: consts.MethodPost,
		Body:   req,
	})
}

// DeleteActivity deletes an activity
func (g *Gateway) DeleteActivity(ctx context.Context, id string) types.Result {
	return g.Request(ctx, activityPath(id), &RequestOptions{Method: consts.MethodDelete})
}

func activityPath(id string) string {
	return fmt.Sprintf(endpointActivityByID, url.PathEscape(id))
}
