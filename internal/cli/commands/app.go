package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/client"
	"github.com/lvyanru/actctl/internal/cli/login"
	"github.com/lvyanru/actctl/internal/cli/notify"
	"github.com/lvyanru/actctl/internal/cli/session"
	"github.com/lvyanru/actctl/internal/cli/tui"
	"github.com/lvyanru/actctl/internal/cli/ui"
	"github.com/lvyanru/actctl/internal/config"
	"github.com/lvyanru/actctl/pkg/logger"
)

const msgSessionUnverified = "could not verify your session, please retry"

// app holds the dependencies shared by every command
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	tokens   session.Store
	notifier *notify.Switch
	gateway  *client.Gateway
	flow     *login.Flow
	verifier *login.Verifier

	interactive bool

	mu             sync.Mutex
	loginRequested bool
	refreshPending bool
	refresh        []func(context.Context)
}

// newApp loads the configuration and wires the client stack
func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serverOverride != "" {
		cfg.Server = serverOverride
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	tokens, err := session.Open(cfg.Token, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	notifier := notify.NewSwitch(notify.NewToast(os.Stderr))

	gateway, err := client.NewGateway(cfg.Server, tokens,
		client.WithNotifier(notifier),
		client.WithLogger(log),
		client.WithTimeouts(cfg.Request.DialTimeout, cfg.Request.ReadTimeout),
	)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		logger:      log,
		tokens:      tokens,
		notifier:    notifier,
		gateway:     gateway,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
	}
	a.flow = login.NewFlow(gateway, tokens, notifier, login.WithLogger(log))
	a.verifier = login.NewVerifier(tokens, gateway, a.requestLogin)
	gateway.OnSessionExpired(a.requestLogin)
	a.flow.OnAuthenticated(func() {
		a.mu.Lock()
		a.refreshPending = true
		a.mu.Unlock()
	})

	return a, nil
}

// context returns the per-command context bounded by request.timeout
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.Request.Timeout)
}

// requestLogin records that the login modal should open once the current
// call has returned; the modal cannot take the terminal mid-request
func (a *app) requestLogin() {
	a.mu.Lock()
	a.loginRequested = true
	a.mu.Unlock()
}

// unverified reports a page that stayed blocked although nobody asked for
// login, e.g. when the server could not be reached
func (a *app) unverified() error {
	a.mu.Lock()
	requested := a.loginRequested
	a.mu.Unlock()

	if requested {
		return nil
	}
	ui.PrintWarning(msgSessionUnverified)
	return fmt.Errorf("session could not be verified")
}

// onAuthenticated registers a reload to run after a successful login
func (a *app) onAuthenticated(fn func(context.Context)) {
	a.mu.Lock()
	a.refresh = append(a.refresh, fn)
	a.mu.Unlock()
}

// settleSession opens the login modal when the session was found missing or
// expired during the command, and reruns the registered reloads after a
// successful login. Without a terminal it prints a hint instead.
func (a *app) settleSession(cmd *cobra.Command) error {
	a.mu.Lock()
	requested := a.loginRequested
	a.loginRequested = false
	a.mu.Unlock()

	if !requested {
		return nil
	}
	if !a.interactive {
		ui.PrintWarning("not logged in, run 'actctl login' first")
		return fmt.Errorf("login required")
	}

	// the modal waits on the user, not on request.timeout
	ok, err := a.runLoginModal(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("login cancelled")
	}

	a.mu.Lock()
	pending := a.refreshPending
	a.refreshPending = false
	refresh := append([]func(context.Context){}, a.refresh...)
	a.mu.Unlock()
	if !pending {
		return nil
	}

	for _, fn := range refresh {
		ctx, cancel := a.context(cmd)
		fn(ctx)
		cancel()
	}
	return nil
}

// runLoginModal runs the interactive modal and reports whether login succeeded
func (a *app) runLoginModal(ctx context.Context) (bool, error) {
	ok, err := tui.NewLoginProgram(a.flow, a.notifier).Run(ctx)
	if err != nil {
		return false, fmt.Errorf("login modal failed: %w", err)
	}
	if ok {
		ui.PrintSuccess(login.MsgLoginSuccess)
	}
	return ok, nil
}

// close releases the token store connection, if any
func (a *app) close() {
	if c, ok := a.tokens.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close token store", "error", err)
		}
	}
}
