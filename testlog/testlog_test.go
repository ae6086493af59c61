package testlog_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tomasbasham/grpcfake/testlog"
)

type fakeTB struct {
	testing.TB
	lines []string
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Log(args ...any) {
	f.lines = append(f.lines, fmt.Sprint(args...))
}

type Widget struct{}

func message(state any, err error) string {
	if err != nil {
		return fmt.Sprintf("%v: %v", state, err)
	}
	return fmt.Sprint(state)
}

func TestLogger_Log(t *testing.T) {
	tests := map[string]struct {
		level  zapcore.Level
		event  testlog.EventID
		state  any
		err    error
		format testlog.Formatter
		want   string
	}{
		"with event": {
			level:  zapcore.InfoLevel,
			event:  testlog.EventID{ID: 7, Name: "Started"},
			state:  "ready",
			format: message,
			want:   "Widget: [INFO] (Started) ready",
		},
		"unnamed event": {
			level:  zapcore.WarnLevel,
			event:  testlog.EventID{ID: 7},
			state:  "slow",
			format: message,
			want:   "Widget: [WARN] (7) slow",
		},
		"without event": {
			level:  zapcore.DebugLevel,
			state:  42,
			format: message,
			want:   "Widget: [DEBUG] 42",
		},
		"with error": {
			level:  zapcore.ErrorLevel,
			state:  "dial",
			err:    errors.New("refused"),
			format: message,
			want:   "Widget: [ERROR] dial: refused",
		},
		"fatal does not exit": {
			level:  zapcore.FatalLevel,
			state:  "boom",
			format: message,
			want:   "Widget: [FATAL] boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tb := &fakeTB{}
			l := testlog.New[Widget](tb)

			l.Log(tt.level, tt.event, tt.state, tt.err, tt.format)

			require.Len(t, tb.lines, 1)
			assert.Equal(t, tt.want, tb.lines[0])
		})
	}
}

func TestNew_PointerType(t *testing.T) {
	tb := &fakeTB{}
	l := testlog.New[*Widget](tb)

	l.Log(zapcore.InfoLevel, testlog.EventID{}, "hi", nil, message)

	require.Len(t, tb.lines, 1)
	assert.Equal(t, "Widget: [INFO] hi", tb.lines[0])
}

func TestNamed_Empty(t *testing.T) {
	tb := &fakeTB{}
	l := testlog.Named(tb, "")

	l.Log(zapcore.InfoLevel, testlog.EventID{}, "hi", nil, message)

	require.Len(t, tb.lines, 1)
	assert.Equal(t, "[INFO] hi", tb.lines[0])
}

func TestLogger_NilFormatter(t *testing.T) {
	tb := &fakeTB{}
	l := testlog.Named(tb, "quiet")

	l.Log(zapcore.InfoLevel, testlog.EventID{ID: 1, Name: "Tick"}, "ignored", nil, nil)

	require.Len(t, tb.lines, 1)
	assert.Equal(t, "quiet: [INFO] (Tick)", tb.lines[0])
	assert.NotContains(t, tb.lines[0], "ignored")
}

func TestLogger_Zap(t *testing.T) {
	tb := &fakeTB{}
	l := testlog.Named(tb, "svc")

	l.Zap().Info("handled", zap.String("method", "/a/B"))

	require.Len(t, tb.lines, 1)
	assert.Contains(t, tb.lines[0], "svc: [INFO] handled")
	assert.Contains(t, tb.lines[0], `"method": "/a/B"`)
}

func TestLogger_Scope(t *testing.T) {
	l := testlog.Named(&fakeTB{}, "scoped")

	scope := l.BeginScope("request")
	assert.Same(t, l, scope)
	assert.NoError(t, scope.Close())

	for _, level := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.FatalLevel} {
		assert.True(t, l.Enabled(level), level.String())
	}
}

func TestLogger_RealTest(t *testing.T) {
	l := testlog.New[Widget](t)
	l.Log(zapcore.InfoLevel, testlog.EventID{}, "written to the test output", nil, message)
}
