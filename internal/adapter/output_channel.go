package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"

	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// Notifier shows user-facing popups.
type Notifier interface {
	Notify(severity m.Severity, message string)
}

// LogFileOptions configures the rotating log file behind the output channel.
type LogFileOptions struct {
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// NewLumberjackOpener returns a sink opener writing to a rotating log file.
func NewLumberjackOpener(opts LogFileOptions) func() io.Writer {
	return func() io.Writer {
		return &lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
	}
}

// OutputChannel is the process-wide log sink. The sink itself is opened lazily
// by EnsureInitialized and then shared by every Logger for the process lifetime.
type OutputChannel struct {
	name     string
	open     func() io.Writer
	console  io.Writer
	notifier Notifier

	once sync.Once
	sink atomic.Pointer[slog.Logger]
}

// NewOutputChannel creates an output channel. Until EnsureInitialized is called,
// messages go to console.
func NewOutputChannel(name string, open func() io.Writer, console io.Writer, notifier Notifier) *OutputChannel {
	return &OutputChannel{
		name:     name,
		open:     open,
		console:  console,
		notifier: notifier,
	}
}

// EnsureInitialized opens the sink on first call. Later calls are no-ops.
func (c *OutputChannel) EnsureInitialized() {
	c.once.Do(func() {
		handler := slog.NewTextHandler(c.open(), &slog.HandlerOptions{Level: slog.LevelDebug})
		c.sink.Store(slog.New(handler).With("channel", c.name))
	})
}

// Initialized reports whether the sink has been opened.
func (c *OutputChannel) Initialized() bool {
	return c.sink.Load() != nil
}

// Notify shows a popup prefixed with the channel name, regardless of any log level.
func (c *OutputChannel) Notify(severity m.Severity, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(severity, c.name+": "+msg)
	}
}

// Logger returns a view of the channel gated at level.
func (c *OutputChannel) Logger(level m.OutputLevel) *Logger {
	return &Logger{channel: c, level: level}
}

// LogOption tweaks a single log call.
type LogOption func(*logOptions)

type logOptions struct {
	forcePopup   bool
	forceConsole bool
}

// WithPopup also shows the message as a popup.
func WithPopup() LogOption {
	return func(o *logOptions) { o.forcePopup = true }
}

// WithConsole writes the message to the console even when the sink is open.
func WithConsole() LogOption {
	return func(o *logOptions) { o.forceConsole = true }
}

// Logger writes to an OutputChannel, dropping messages below its threshold.
type Logger struct {
	channel *OutputChannel
	level   m.OutputLevel
}

// Level returns the threshold.
func (l *Logger) Level() m.OutputLevel {
	return l.level
}

// Info logs at info level.
func (l *Logger) Info(msg string, options ...LogOption) {
	l.emit(m.OutputInfo, m.SeverityInfo, msg, options)
}

// Warn logs at warning level.
func (l *Logger) Warn(msg string, options ...LogOption) {
	l.emit(m.OutputWarning, m.SeverityWarning, msg, options)
}

// Error always shows a popup, then logs at error level.
func (l *Logger) Error(msg string, options ...LogOption) {
	l.channel.Notify(m.SeverityError, msg)
	l.emit(m.OutputError, m.SeverityError, msg, append(options, withoutPopup()))
}

func withoutPopup() LogOption {
	return func(o *logOptions) { o.forcePopup = false }
}

func (l *Logger) emit(level m.OutputLevel, severity m.Severity, msg string, options []LogOption) {
	if l.level > level {
		return
	}

	var opts logOptions
	for _, option := range options {
		option(&opts)
	}

	if opts.forcePopup {
		l.notify(severity, msg)
	}

	sink := l.channel.sink.Load()
	if opts.forceConsole || sink == nil {
		if l.channel.console != nil {
			_, _ = fmt.Fprintf(l.channel.console, "%s: %s%s\n", l.channel.name, severityPrefix(severity), msg)
		}

		return
	}

	switch severity {
	case m.SeverityInfo:
		sink.Info(msg)
	case m.SeverityWarning:
		sink.Warn(msg)
	case m.SeverityError:
		sink.Error(msg)
	}
}

func (l *Logger) notify(severity m.Severity, msg string) {
	if l.channel.notifier != nil {
		l.channel.notifier.Notify(severity, msg)
	}
}

func severityPrefix(severity m.Severity) string {
	switch severity {
	case m.SeverityWarning:
		return "warn: "
	case m.SeverityError:
		return "error: "
	}

	return ""
}
