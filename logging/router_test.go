package logging_test

import (
	"context"
	"testing"
	"time"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging/navigation"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging/sinks"
)

func TestRouterDeliversToSinks(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityDebug
	cfg.Fields = map[string]any{"service": "nav"}
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	router, err := logging.NewRouter(logging.ClockFunc(func() time.Time { return fixed }), cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	pub := logging.WithAgent(router, "agent-1")
	navigation.PathFound(context.Background(), pub, 7, navigation.PathPayload{Waypoints: 3}, map[string]any{"service": "override"})
	navigation.GraphBuilt(context.Background(), pub, navigation.GraphBuiltPayload{Width: 4}, nil)
	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityError})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	events := memory.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	found := memory.OfType(navigation.EventPathFound)
	if len(found) != 1 {
		t.Fatalf("expected one path_found event, got %d", len(found))
	}
	event := found[0]
	if event.Agent != "agent-1" || event.QueryID != 7 {
		t.Fatalf("unexpected event identity %+v", event)
	}
	if !event.Time.Equal(fixed) {
		t.Fatalf("expected router clock to stamp the event, got %v", event.Time)
	}
	if event.Extra["service"] != "override" {
		t.Fatalf("expected event fields to win over router fields, got %v", event.Extra)
	}
	built := memory.OfType(navigation.EventGraphBuilt)
	if len(built) != 1 || built[0].Extra["service"] != "nav" {
		t.Fatalf("expected router fields on graph_built, got %+v", built)
	}
	if stats := router.Stats(); stats.EventsTotal != 2 || stats.DroppedTotal != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if router.Sink("memory") != memory {
		t.Fatalf("expected sink lookup by name")
	}
}

func TestRouterFiltersBySeverity(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn

	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	navigation.PathNotFound(context.Background(), router, 1, navigation.PathPayload{}, nil)
	navigation.GraphRejected(context.Background(), router, navigation.GraphRejectedPayload{Reason: "bad"}, nil)
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 || events[0].Type != navigation.EventGraphRejected {
		t.Fatalf("expected only the warning to pass, got %+v", events)
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]logging.Severity{
		"debug":   logging.SeverityDebug,
		"":        logging.SeverityInfo,
		"WARNING": logging.SeverityWarn,
		" error ": logging.SeverityError,
	}
	for raw, want := range cases {
		got, err := logging.ParseSeverity(raw)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := logging.ParseSeverity("loud"); err == nil {
		t.Fatalf("expected unknown severity to fail")
	}
	if got := logging.ParseSinks(" console, ,json"); len(got) != 2 || got[1] != "json" {
		t.Fatalf("unexpected sinks %v", got)
	}
}
