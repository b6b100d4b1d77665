package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoforge/pkg/workspace"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("saved", "ontology", "ont-1") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("restored") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("restored") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("autosave failed") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Imported team.json")

	out := buf.String()
	if !strings.Contains(out, "Imported team.json (") {
		t.Errorf("output %q lacks message with duration", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("output %q lacks duration unit", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("expected default logger for bare context")
	}
	l := newLogger(io.Discard, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLoadConfigAppliesLogLevel(t *testing.T) {
	env := newTestEnv(t)

	c := New(io.Discard, LogInfo)
	c.configPath = env.cfgPath
	if err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}
	if got := c.Logger.GetLevel(); got != log.ErrorLevel {
		t.Errorf("level = %v, want error from config", got)
	}

	verbose := New(io.Discard, LogDebug)
	verbose.configPath = env.cfgPath
	if err := verbose.loadConfig(); err != nil {
		t.Fatal(err)
	}
	if got := verbose.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, --verbose should keep debug", got)
	}
}

func TestWithSessionAttachesLogger(t *testing.T) {
	env := newTestEnv(t)

	c := New(io.Discard, LogInfo)
	c.configPath = env.cfgPath
	if err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}

	called := false
	err := c.withSession(context.Background(), false, func(ctx context.Context, ws *workspace.Workspace) error {
		called = true
		if loggerFromContext(ctx) != c.Logger {
			t.Error("session context does not carry the CLI logger")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("session callback not invoked")
	}
}
