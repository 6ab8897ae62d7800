package form

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObserver_ReceivesLifecycle(t *testing.T) {
	var kinds []EventKind
	ctx, _ := newSignup(t, WithID("form-1"), WithObserver(func(evt Event) {
		if evt.FormID != "form-1" || evt.Schema != "signup" {
			t.Errorf("unexpected event identity %+v", evt)
		}
		kinds = append(kinds, evt.Kind)
	}))

	unsub, _ := ctx.Subscribe("firstName", func(Change) {})
	_ = ctx.SetValue("firstName", "Al")
	_ = ctx.SetValue("bingBong", "x")
	_, _ = ctx.Submit()
	unsub()
	ctx.Close()

	want := []EventKind{EventMount, EventSubscribe, EventChange, EventUnknownField, EventSubmit, EventUnsubscribe, EventClose}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestChain(t *testing.T) {
	if Chain(nil, nil) != nil {
		t.Fatalf("chain of nils should be nil")
	}
	var a, b int
	obs := Chain(func(Event) { a++ }, nil, func(Event) { b++ })
	obs(Event{Kind: EventMount})
	if a != 1 || b != 1 {
		t.Fatalf("expected both observers called, got %d %d", a, b)
	}
}

func TestLogObserver(t *testing.T) {
	if LogObserver(nil) != nil {
		t.Fatalf("nil logger should disable the observer")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx, _ := newSignup(t, WithObserver(LogObserver(logger)))

	_ = ctx.SetValue("firstName", "a")
	_ = ctx.SetValue("bingBong", "x")

	out := buf.String()
	for _, want := range []string{"form mount", "form change", "field=firstName", "valid=false", "level=WARN", "field=bingBong"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "value=") {
		t.Fatalf("log output must not include values:\n%s", out)
	}
}
