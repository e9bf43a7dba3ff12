package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

var _ hlog.FullLogger = (*HertzSlogAdapter)(nil)

// HertzSlogAdapter routes the hertz client's internal logs (dial errors,
// connection reuse) into slog, tagged with component=hertz
type HertzSlogAdapter struct {
	logger *slog.Logger
}

// NewHertzSlogAdapter creates a hlog.FullLogger backed by logger
func NewHertzSlogAdapter(logger *slog.Logger) *HertzSlogAdapter {
	return &HertzSlogAdapter{logger: logger.With("component", "hertz")}
}

func (h *HertzSlogAdapter) log(ctx context.Context, level slog.Level, msg string) {
	h.logger.Log(ctx, level, msg)
}

func (h *HertzSlogAdapter) Trace(v ...interface{}) {
	h.log(context.Background(), slog.LevelDebug, sprint(v...))
}
func (h *HertzSlogAdapter) Debug(v ...interface{}) {
	h.log(context.Background(), slog.LevelDebug, sprint(v...))
}
func (h *HertzSlogAdapter) Info(v ...interface{}) {
	h.log(context.Background(), slog.LevelInfo, sprint(v...))
}
func (h *HertzSlogAdapter) Notice(v ...interface{}) {
	h.log(context.Background(), slog.LevelInfo, sprint(v...))
}
func (h *HertzSlogAdapter) Warn(v ...interface{}) {
	h.log(context.Background(), slog.LevelWarn, sprint(v...))
}
func (h *HertzSlogAdapter) Error(v ...interface{}) {
	h.log(context.Background(), slog.LevelError, sprint(v...))
}

// Fatal is logged at error level; the client must never exit the process
func (h *HertzSlogAdapter) Fatal(v ...interface{}) {
	h.log(context.Background(), slog.LevelError, sprint(v...))
}

func (h *HertzSlogAdapter) Tracef(format string, v ...interface{}) {
	h.log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Debugf(format string, v ...interface{}) {
	h.log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Infof(format string, v ...interface{}) {
	h.log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Noticef(format string, v ...interface{}) {
	h.log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Warnf(format string, v ...interface{}) {
	h.log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Errorf(format string, v ...interface{}) {
	h.log(context.Background(), slog.LevelError, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) Fatalf(format string, v ...interface{}) {
	h.log(context.Background(), slog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzSlogAdapter) CtxTracef(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxDebugf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxInfof(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxNoticef(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxWarnf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelWarn, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxErrorf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}
func (h *HertzSlogAdapter) CtxFatalf(ctx context.Context, format string, v ...interface{}) {
	h.log(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}

// SetLevel is a no-op; the slog handler owns the level
func (h *HertzSlogAdapter) SetLevel(hlog.Level) {}

// SetOutput is a no-op; the slog handler owns the writer
func (h *HertzSlogAdapter) SetOutput(io.Writer) {}

func sprint(v ...interface{}) string {
	if len(v) == 1 {
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(v...)
}
