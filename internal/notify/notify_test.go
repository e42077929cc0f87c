package notify

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecorder_KeepsOrderAndLast(t *testing.T) {
	t.Parallel()

	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatalf("expected empty recorder to have no last notification")
	}
	r.Notify(Notification{Title: "Error", Message: "a", Severity: SeverityError})
	r.Notify(Notification{Title: "Success", Message: "b", Severity: SeveritySuccess})

	all := r.All()
	if len(all) != 2 || all[0].Message != "a" || all[1].Message != "b" {
		t.Fatalf("unexpected notifications: %#v", all)
	}
	last, ok := r.Last()
	if !ok || last.Severity != SeveritySuccess {
		t.Fatalf("expected last success; got %#v ok=%v", last, ok)
	}

	r.Reset()
	if got := len(r.All()); got != 0 {
		t.Fatalf("expected reset recorder to be empty; got %d", got)
	}
}

func TestLog_LevelFollowsSeverity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		sev   Severity
		level string
	}{
		{SeveritySuccess, "info"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warn"},
		{SeverityError, "error"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		l := Log{Logger: zerolog.New(&buf)}
		l.Notify(Notification{Title: "T", Message: "M", Severity: tc.sev})

		var ev map[string]any
		if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
			t.Fatalf("unmarshal log line: %v (%q)", err, buf.String())
		}
		if ev["level"] != tc.level {
			t.Fatalf("severity %s: expected level %q; got %v", tc.sev, tc.level, ev["level"])
		}
		if ev["message"] != "M" || ev["title"] != "T" {
			t.Fatalf("unexpected log fields: %v", ev)
		}
	}
}

func TestLog_WritesOneLineAtTheChosenLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := Log{Logger: zerolog.New(&buf).Level(zerolog.ErrorLevel)}
	l.Notify(Notification{Title: "Success", Message: "quiet", Severity: SeveritySuccess})
	l.Notify(Notification{Title: "Warn", Message: "quiet", Severity: SeverityWarning})
	if buf.Len() != 0 {
		t.Fatalf("expected levels below error to be filtered; got %q", buf.String())
	}

	l.Notify(Notification{Title: "Error", Message: "loud", Severity: SeverityError})
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("expected exactly one log line; got %d (%q)", got, buf.String())
	}
}

func TestMulti_FansOutAndSkipsNil(t *testing.T) {
	t.Parallel()

	var a, b Recorder
	calls := 0
	m := Multi{&a, nil, Func(func(Notification) { calls++ }), &b}
	m.Notify(Notification{Title: "x"})

	if len(a.All()) != 1 || len(b.All()) != 1 || calls != 1 {
		t.Fatalf("expected every notifier to see one notification; a=%d b=%d func=%d", len(a.All()), len(b.All()), calls)
	}

	// Discard must be safe to call.
	Discard.Notify(Notification{Title: "ignored"})
}
