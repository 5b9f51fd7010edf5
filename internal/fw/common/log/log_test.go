package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Debug(_ map[string]any, msg string) { l.entries = append(l.entries, "DEBUG:"+msg) }
func (l *recordingLogger) Info(_ map[string]any, msg string)  { l.entries = append(l.entries, "INFO:"+msg) }
func (l *recordingLogger) Warn(_ map[string]any, msg string)  { l.entries = append(l.entries, "WARN:"+msg) }
func (l *recordingLogger) Error(_ map[string]any, msg string) { l.entries = append(l.entries, "ERROR:"+msg) }
func (l *recordingLogger) Panic(_ map[string]any, msg string) {}
func (l *recordingLogger) Fatal(_ map[string]any, msg string) {}

func TestGlobalDispatch(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	rec := &recordingLogger{}
	SetLogger(rec)

	Debug(nil, "d")
	Info(map[string]any{"rules": 2}, "i")
	Warn(nil, "w")
	Error(nil, "e")

	want := []string{"DEBUG:d", "INFO:i", "WARN:w", "ERROR:e"}
	if len(rec.entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(rec.entries), len(want))
	}
	for i := range want {
		if rec.entries[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, rec.entries[i], want[i])
		}
	}
}

func TestSetLogger_NilFallsBackToNoop(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	SetLogger(nil)
	if _, ok := GetLogger().(noopLogger); !ok {
		t.Fatalf("expected noop logger, got %T", GetLogger())
	}
	Panic(nil, "must not panic")
	Fatal(nil, "must not exit")
}

func TestZapLogger_FieldsAndLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &zapLogger{base: zap.New(core)}

	l.Debug(nil, "hidden")
	l.Info(map[string]any{"port": 443, "address": "10.0.0.1"}, "rule added")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Message != "rule added" {
		t.Errorf("message = %q", e.Message)
	}
	if len(e.Context) != 2 || e.Context[0].Key != "address" || e.Context[1].Key != "port" {
		t.Errorf("fields not sorted by key: %+v", e.Context)
	}
}

func TestZapLogger_Panic(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	l := &zapLogger{base: zap.New(core)}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic, but none occurred")
		}
	}()
	l.Panic(nil, "boom")
}

func TestConfigure(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	for _, tc := range []struct{ env, level string }{
		{"dev", "debug"}, {"prod", "info"}, {"prod", "WARN"}, {"dev", " error "},
	} {
		if err := Configure(tc.env, tc.level); err != nil {
			t.Errorf("Configure(%q, %q) unexpected error: %v", tc.env, tc.level, err)
		}
	}

	if err := Configure("dev", "notalevel"); err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
}
