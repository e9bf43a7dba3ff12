package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	hertzclient "github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"github.com/lvyanru/actctl/internal/cli/notify"
	"github.com/lvyanru/actctl/internal/cli/session"
	"github.com/lvyanru/actctl/internal/cli/types"
)

// MsgSessionExpired is shown whenever the server rejects the stored token
const MsgSessionExpired = "session expired, please log in again"

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	mimeJSON            = "application/json"
)

// RequestOptions configures a single call. The zero value is a GET without body.
type RequestOptions struct {
	Method string
	// Body is sent as-is when it is []byte or string, otherwise marshaled to JSON
	Body    interface{}
	Headers map[string]string
}

// Gateway issues API calls against a fixed base URL and normalizes every
// response into a types.Result.
//
// A 401 response clears the stored token, runs the session-expired handler
// and shows MsgSessionExpired, independent of what the caller does with the result.
type Gateway struct {
	client   *hertzclient.Client
	server   string
	tokens   session.Store
	notifier notify.Notifier
	logger   *slog.Logger

	dialTimeout time.Duration
	readTimeout time.Duration

	mu        sync.RWMutex
	onExpired func()
}

// Option configures a Gateway
type Option func(*Gateway)

// WithNotifier sets where the session-expired notification goes
func WithNotifier(n notify.Notifier) Option {
	return func(g *Gateway) { g.notifier = n }
}

// WithLogger sets the request logger
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithTimeouts sets the transport dial and read timeouts
func WithTimeouts(dial, read time.Duration) Option {
	return func(g *Gateway) {
		g.dialTimeout = dial
		g.readTimeout = read
	}
}

// NewGateway creates a gateway for the API rooted at server (e.g. http://localhost:3000/api)
func NewGateway(server string, tokens session.Store, opts ...Option) (*Gateway, error) {
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	g := &Gateway{
		server:      normalizedServer,
		tokens:      tokens,
		notifier:    notify.Func(func(string) {}),
		logger:      slog.Default(),
		dialTimeout: 10 * time.Second,
		readTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}

	c, err := hertzclient.NewClient(
		hertzclient.WithDialTimeout(g.dialTimeout),
		hertzclient.WithClientReadTimeout(g.readTimeout),
		hertzclient.WithMaxIdleConnDuration(60*time.Second),
		hertzclient.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	g.client = c

	return g, nil
}

// normalizeServerURL adds a missing scheme and strips the trailing slash.
// Unlike a bare origin the API base keeps its path (/api).
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, strings.TrimRight(u.Path, "/")), nil
}

// Server returns the normalized API base
func (g *Gateway) Server() string {
	return g.server
}

// OnSessionExpired sets the handler run after a 401 cleared the token.
// It is typically bound to showing the login prompt.
func (g *Gateway) OnSessionExpired(fn func()) {
	g.mu.Lock()
	g.onExpired = fn
	g.mu.Unlock()
}

// Request performs one call and returns exactly one result. It never panics
// and never returns an error; transport failures come back as Status 0.
func (g *Gateway) Request(ctx context.Context, path string, opts *RequestOptions) (res types.Result) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = consts.MethodGet
	}

	requestID := uuid.NewString()
	start := time.Now()
	log := g.logger.With("method", method, "path", path, "request_id", requestID)

	defer func() {
		if r := recover(); r != nil {
			res = transportFailure(fmt.Errorf("request panicked: %v", r))
		}
		log.DebugContext(ctx, "api request finished",
			"status", res.Status,
			"success", res.Success,
			"duration", time.Since(start),
		)
	}()

	body, err := encodeBody(opts.Body)
	if err != nil {
		log.WarnContext(ctx, "failed to encode request body", "error", err)
		return transportFailure(err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(method)
	req.SetRequestURI(g.server + path)
	for k, v := range g.buildHeaders(opts.Headers, requestID) {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.SetBody(body)
	}

	if err := g.client.Do(ctx, req, resp); err != nil {
		log.WarnContext(ctx, "api request failed", "error", err)
		return transportFailure(fmt.Errorf("request failed: %w", err))
	}

	status := resp.StatusCode()
	// resp is released on return; the result must not alias its buffer
	raw := append([]byte(nil), resp.Body()...)

	if status == consts.StatusUnauthorized {
		g.expireSession(ctx, log)
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		log.WarnContext(ctx, "failed to parse response", "status", status, "error", err)
		return transportFailure(err)
	}
	log.DebugContext(ctx, "response envelope", "kind", env.kind.String())

	return normalize(status, env)
}

// buildHeaders merges default and caller headers (caller wins) and applies
// the bearer credential last. Keys are canonicalized so a conflict differing
// only in case resolves the same way.
func (g *Gateway) buildHeaders(extra map[string]string, requestID string) map[string]string {
	headers := make(map[string]string, len(extra)+3)
	set := func(k, v string) { headers[textproto.CanonicalMIMEHeaderKey(k)] = v }

	set(headerContentType, mimeJSON)
	set(headerRequestID, requestID)
	for k, v := range extra {
		set(k, v)
	}
	if token, ok := g.tokens.Get(); ok {
		set(headerAuthorization, "Bearer "+token)
	}
	return headers
}

func (g *Gateway) expireSession(ctx context.Context, log *slog.Logger) {
	if err := g.tokens.Remove(); err != nil {
		log.ErrorContext(ctx, "failed to clear expired token", "error", err)
	}

	g.mu.RLock()
	onExpired := g.onExpired
	g.mu.RUnlock()
	if onExpired != nil {
		onExpired()
	}

	g.notifier.Notify(MsgSessionExpired)
	log.InfoContext(ctx, "session expired, token cleared")
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		data, err := sonic.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		return data, nil
	}
}

func transportFailure(err error) types.Result {
	return types.Result{
		Success: false,
		Status:  0,
		Data:    nil,
		Message: err.Error(),
	}
}
