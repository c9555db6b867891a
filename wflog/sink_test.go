package wflog

import "testing"

func TestRegisterDeregister(t *testing.T) {
	var got []string
	id := Register(func(level Level, line string) {
		got = append(got, level.String()+":"+line)
	})

	Info("hello")
	Warn("careful")

	if len(got) != 2 {
		t.Fatalf("expected 2 dispatched lines, got %d: %v", len(got), got)
	}
	if got[0] != "info:hello" || got[1] != "warn:careful" {
		t.Fatalf("unexpected lines: %v", got)
	}

	Deregister(id)
	Info("should not be seen")
	if len(got) != 2 {
		t.Fatalf("expected no new lines after deregister, got %v", got)
	}
}

func TestDeregisterUnknownIsNoop(t *testing.T) {
	Deregister(SinkID(999999))
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "debug",
		LevelInfo:  "info",
		LevelWarn:  "warn",
		LevelError: "error",
		Level(99):  "unknown",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
