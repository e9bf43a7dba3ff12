package commands

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/lvyanru/actctl/internal/cli/ui"
	"github.com/lvyanru/actctl/internal/domain"
)

// statusCmd is the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show the login state",
	Long: `Show the configured server and whether the stored token is accepted by it.

The token's phone and expiry are read from its claims for display only; the
server remains the authority on whether it is valid.`,
	Args:         cobra.NoArgs,
	RunE:         runStatus,
	SilenceUsage: true,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		ui.PrintError("%v", err)
		return err
	}
	defer a.close()

	ctx, cancel := a.context(cmd)
	defer cancel()

	info := ui.SessionInfo{Server: a.gateway.Server(), Backend: a.cfg.Token.Backend}

	if token, ok := a.tokens.Get(); ok {
		info.HasToken = true
		info.Subject, info.ExpiresAt = inspectToken(token)
		if err := domain.FromResult(a.gateway.VerifyToken(ctx), "token rejected"); err != nil {
			info.Problem = describeProblem(err)
		} else {
			info.Valid = true
		}
	}

	ui.Println(ui.RenderSession(info))
	return nil
}

// inspectToken reads the phone and expiry claims without verifying the
// signature; both are empty when the token is not a JWT
func inspectToken(token string) (phone, expires string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", ""
	}

	if v, ok := claims["phone"].(string); ok {
		phone = v
	} else if sub, err := claims.GetSubject(); err == nil {
		phone = sub
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expires = exp.Time.Local().Format(time.DateTime)
		if time.Now().After(exp.Time) {
			expires += " (expired)"
		}
	}
	return phone, expires
}

func describeProblem(err error) string {
	var ce *domain.ClientError
	switch {
	case domain.IsTransport(err):
		return "server unreachable"
	case domain.IsSessionExpired(err):
		return "session expired"
	case errors.As(err, &ce):
		return ce.UserMessage()
	default:
		return err.Error()
	}
}
