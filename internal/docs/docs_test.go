package docs

import (
	"strings"
	"testing"
)

func TestTopicsAndGet(t *testing.T) {
	t.Parallel()

	topics := Topics()
	want := []string{"backend", "overview", "tui"}
	if strings.Join(topics, ",") != strings.Join(want, ",") {
		t.Fatalf("expected topics %v; got %v", want, topics)
	}
	for _, topic := range topics {
		body, ok := Get(" " + strings.ToUpper(topic) + " ")
		if !ok || strings.TrimSpace(body) == "" {
			t.Fatalf("expected body for topic %q", topic)
		}
	}
	if _, ok := Get("missing"); ok {
		t.Fatalf("did not expect a missing topic")
	}
	if _, ok := Get(""); ok {
		t.Fatalf("did not expect an empty topic")
	}
}

func TestRender_NoTTYStyle(t *testing.T) {
	t.Parallel()

	out := Render("# Title\n\nsome *text*", "notty", 40)
	if !strings.Contains(out, "Title") || !strings.Contains(out, "text") {
		t.Fatalf("expected rendered markdown to keep content; got %q", out)
	}
	if Render("   ", "notty", 40) != "" {
		t.Fatalf("expected empty render for blank input")
	}
}
