package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/pagestate"
	"github.com/aretw0/pagestate/pkg/adapters/memory"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/observability"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/aretw0/pagestate/pkg/state"
	"github.com/aretw0/pagestate/pkg/view"
	"github.com/prometheus/client_golang/prometheus"
)

type fixture struct {
	engine *pagestate.Engine
	idle   *state.PageState
	busy   state.Def[map[string]any]
	sink   *memory.TraceSink
	server *Server
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	idle := state.New("idle")
	busy := state.Define[map[string]any]("busy")
	sink := memory.NewTraceSink()

	eng, err := pagestate.New(idle, pagestate.WithTraceSink(sink), pagestate.WithMachineID("m-1"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tree := []view.Node{
		view.Case(idle, view.El("p", nil, view.Text("Nothing to do."))),
		view.Case(busy.PageState, view.El("p", view.Props{"class": "busy"}, view.Text("Working..."))),
	}
	opts = append([]Option{WithTree(tree...), WithTraceSink(sink)}, opts...)
	return &fixture{
		engine: eng,
		idle:   idle,
		busy:   busy,
		sink:   sink,
		server: NewServer(eng, opts...),
	}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetPage_RendersActiveCase(t *testing.T) {
	f := newFixture(t, WithTitle("jobs"))

	w := f.get(t, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<title>jobs</title>") {
		t.Errorf("Expected document title, got %s", body)
	}
	if !strings.Contains(body, "Nothing to do.") || strings.Contains(body, "Working...") {
		t.Errorf("Expected only the idle case, got %s", body)
	}

	f.engine.Transition(context.Background(), f.idle, f.busy.PageState)

	body = f.get(t, "/").Body.String()
	if !strings.Contains(body, `<p class="busy">Working...</p>`) {
		t.Errorf("Expected the busy case, got %s", body)
	}
}

func TestGetState(t *testing.T) {
	f := newFixture(t)
	f.engine.Transition(context.Background(), f.idle, f.busy.PageState, f.busy.Passing(map[string]any{"job": "42"}))

	w := f.get(t, "/state")
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var snap domain.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.MachineID != "m-1" || snap.Current != "busy" || snap.Generation != 1 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
	if snap.Context["job"] != "42" {
		t.Errorf("Expected job in context, got %v", snap.Context)
	}
}

func TestGetTraces(t *testing.T) {
	f := newFixture(t)

	var events []domain.TraceEvent
	if err := json.NewDecoder(f.get(t, "/traces").Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected empty trace, got %v", events)
	}

	f.engine.Transition(context.Background(), f.idle, f.busy.PageState)

	events = nil
	if err := json.NewDecoder(f.get(t, "/traces?limit=1").Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 || events[0].Type != domain.EventStateEnter || events[0].To != "busy" {
		t.Errorf("Expected the enter event only, got %+v", events)
	}

	if w := f.get(t, "/traces?limit=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad limit, got %d", w.Code)
	}
}

func TestGetTraces_Disabled(t *testing.T) {
	eng, err := pagestate.New(state.New("idle"))
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	NewHandler(eng).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/traces", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestGetGraph(t *testing.T) {
	f := newFixture(t)
	f.engine.Transition(context.Background(), f.idle, f.busy.PageState)

	body := f.get(t, "/graph").Body.String()
	for _, want := range []string{"stateDiagram-v2", "idle --> busy", "class busy active"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in graph:\n%s", want, body)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	idle, busy := state.New("idle"), state.New("busy")
	eng, err := pagestate.New(idle, pagestate.WithLifecycleHooks(metrics.Hooks()))
	if err != nil {
		t.Fatal(err)
	}
	eng.Transition(context.Background(), idle, busy)

	w := httptest.NewRecorder()
	NewHandler(eng, WithGatherer(reg)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), `pagestate_transitions_total{from="idle",to="busy"} 1`) {
		t.Errorf("Expected transition counter, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	NewHandler(eng).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected /metrics to be absent without a gatherer, got %d", w.Code)
	}
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	if body := f.get(t, "/health").Body.String(); !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("Unexpected health body %s", body)
	}

	var info map[string]string
	if err := json.NewDecoder(f.get(t, "/info").Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info["machine_id"] != "m-1" || info["version"] != pagestate.Version {
		t.Errorf("Unexpected info %v", info)
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/state", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestWrite_BroadcastsDiffs(t *testing.T) {
	f := newFixture(t)
	ch, cancel := f.server.Streams.Subscribe("m-1")
	defer cancel()

	ctx := context.Background()
	frame := func() runner.Frame { return runner.Frame{Snapshot: f.engine.Snapshot()} }

	if err := f.server.Write(ctx, frame()); err != nil {
		t.Fatal(err)
	}
	if err := f.server.Write(ctx, frame()); err != nil {
		t.Fatal(err)
	}
	f.engine.Transition(ctx, f.idle, f.busy.PageState)
	if err := f.server.Write(ctx, frame()); err != nil {
		t.Fatal(err)
	}

	if len(ch) != 2 {
		t.Fatalf("Expected initial and transition diffs only, got %d", len(ch))
	}
	<-ch
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(<-ch), &diff); err != nil {
		t.Fatal(err)
	}
	if diff.Current == nil || *diff.Current != "busy" {
		t.Errorf("Expected current busy, got %+v", diff)
	}
	if len(diff.Entered) != 1 || diff.Entered[0] != "busy" || len(diff.Exited) != 1 || diff.Exited[0] != "idle" {
		t.Errorf("Unexpected members diff %+v", diff)
	}
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.server.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events?watch=members", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	expect := func(prefix string) string {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("stream closed before %q", prefix)
				}
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	if got := expect("data:"); got != "data: connected" {
		t.Fatalf("Expected ping, got %q", got)
	}

	// Context-only diffs are filtered out by watch=members.
	f.server.Streams.Broadcast("m-1", `{"machine_id":"m-1","generation":0,"context":{"a":1}}`)
	f.engine.Transition(ctx, f.idle, f.busy.PageState)
	if err := f.server.Write(ctx, runner.Frame{Snapshot: f.engine.Snapshot()}); err != nil {
		t.Fatal(err)
	}

	got := expect("data:")
	if !strings.Contains(got, `"entered":["busy"]`) {
		t.Errorf("Expected members diff, got %q", got)
	}

	cancel()
	_, _ = io.Copy(io.Discard, resp.Body)
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("m")
	if sm.Subscribers("m") != 1 {
		t.Fatal("Expected one subscriber")
	}
	cancel()
	cancel()
	if sm.Subscribers("m") != 0 {
		t.Error("Expected no subscribers")
	}
	if _, ok := <-ch; ok {
		t.Error("Expected closed channel")
	}
	sm.Broadcast("m", "ignored")
}
