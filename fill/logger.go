package fill

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silentHandler 丢弃所有日志，Enabled 返回 false 以跳过格式化。
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (silentHandler) WithAttrs([]slog.Attr) slog.Handler        { return silentHandler{} }
func (silentHandler) WithGroup(string) slog.Handler             { return silentHandler{} }

func newSilentLogger() *slog.Logger { return slog.New(silentHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newSilentLogger())
}

// SetLogger 设置 fill 包使用的日志器，默认不输出任何内容。
// 传入 nil 恢复静默。
//
// 使用的级别：
//   - [slog.LevelDebug]: 字号搜索过程（仅在 Config.Debug 打开时输出）
//   - [slog.LevelWarn]: 已废弃的 callback 钩子
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newSilentLogger()
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
