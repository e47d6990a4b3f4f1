package logger

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type entry struct {
	Level   string
	Message string
	Keyvals []any
}

type recorder struct {
	entries []entry
}

func (r *recorder) add(level, msg string, kv []any) {
	r.entries = append(r.entries, entry{Level: level, Message: msg, Keyvals: kv})
}

func (r *recorder) Log(m string, kv ...any)   { r.add("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.add("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any)  { r.add("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any)  { r.add("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.add("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.add("fatal", m, kv) }

func TestDispatchToAllInstances(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	t.Cleanup(func() { current.Store(nil) })

	Log("plain", "k", 1)
	Info("started", "port", "8080")
	Error("Failed to brainstorm", "err", "boom")

	want := []entry{
		{Level: "log", Message: "plain", Keyvals: []any{"k", 1}},
		{Level: "info", Message: "started", Keyvals: []any{"port", "8080"}},
		{Level: "error", Message: "Failed to brainstorm", Keyvals: []any{"err", "boom"}},
	}
	for _, r := range []*recorder{a, b} {
		if diff := cmp.Diff(want, r.entries); diff != "" {
			t.Fatalf("entries mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestUninitializedIsNoop(t *testing.T) {
	current.Store(nil)
	Info("nobody listens")
	Debug("nobody listens")
}
