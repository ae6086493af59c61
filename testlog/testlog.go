// Package testlog writes log entries into the output of the running test.
package testlog

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// EventID identifies a kind of log event. The zero value means no event.
type EventID struct {
	ID   int
	Name string
}

func (e EventID) String() string {
	if e.Name == "" {
		return fmt.Sprint(e.ID)
	}
	return e.Name
}

// Formatter renders the state and error of an entry as its message.
type Formatter func(state any, err error) string

// Logger forwards log entries to [testing.TB.Log], so they show up next to the
// test that produced them. Every level is enabled.
type Logger struct {
	name string
	core zapcore.Core
	zap  *zap.Logger
}

// New returns a logger named after the type T. Pointer types are named after
// the type they point to.
func New[T any](tb testing.TB) *Logger {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Named(tb, t.Name())
}

// Named returns a logger with the given name.
func Named(tb testing.TB, name string) *Logger {
	core := zapcore.NewCore(newEncoder(), zapcore.AddSync(writer{tb}), zapcore.DebugLevel)
	return &Logger{
		name: name,
		core: core,
		zap:  zap.New(core).Named(name),
	}
}

// Enabled reports whether entries at level are written. It is always true.
func (l *Logger) Enabled(zapcore.Level) bool {
	return true
}

// BeginScope returns the logger itself; scopes carry no state.
func (l *Logger) BeginScope(any) *Logger {
	return l
}

// Close is a no-op so a scope can be closed.
func (l *Logger) Close() error {
	return nil
}

// Log writes an entry. The message is produced by format, when it is not nil,
// and prefixed with the event when its ID is not zero. Entries at panic and
// fatal levels are written like any other; Log never panics or exits.
func (l *Logger) Log(level zapcore.Level, event EventID, state any, err error, format Formatter) {
	var msg strings.Builder
	if event.ID != 0 {
		fmt.Fprintf(&msg, "(%s)", event)
	}
	if format != nil {
		if msg.Len() > 0 {
			msg.WriteByte(' ')
		}
		msg.WriteString(format(state, err))
	}

	entry := zapcore.Entry{
		Level:      level,
		Time:       time.Now(),
		LoggerName: l.name,
		Message:    msg.String(),
	}
	l.core.Write(entry, nil) //nolint:errcheck // writer never fails
}

// Zap returns a zap logger writing to the same test in the same format.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

func newEncoder() zapcore.Encoder {
	return encoder{zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		NameKey:          "logger",
		MessageKey:       "msg",
		ConsoleSeparator: " ",
		EncodeName: func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(name + ":")
		},
		EncodeDuration: zapcore.StringDurationEncoder,
	})}
}

// encoder writes the level after the logger name, as "Name: [LEVEL] msg".
// The console encoder always puts the level first, so the level is moved into
// the message instead.
type encoder struct {
	zapcore.Encoder
}

func (e encoder) Clone() zapcore.Encoder {
	return encoder{e.Encoder.Clone()}
}

func (e encoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	level := "[" + ent.Level.CapitalString() + "]"
	if ent.Message == "" {
		ent.Message = level
	} else {
		ent.Message = level + " " + ent.Message
	}
	return e.Encoder.EncodeEntry(ent, fields)
}

// writer adapts testing.TB to an io.Writer for zap.
type writer struct {
	tb testing.TB
}

func (w writer) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
