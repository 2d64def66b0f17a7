package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/docs"
	"github.com/docwright/docwright/internal/orchestrator"
)

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func TestStatsEndpointReflectsProgress(t *testing.T) {
	d := New(docs.NewDocGenerator(t.TempDir()))
	r := setupRouter(d)

	d.Start(5)
	d.Update(2, "mod.foo")

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/dashboard/stats")
	if err != nil {
		t.Fatalf("GET /api/dashboard/stats: %v", err)
	}
	defer resp.Body.Close()

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Total != 5 || stats.Current != 2 || stats.Message != "mod.foo" {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Done || stats.HasReport {
		t.Errorf("stats = %+v, want not done and no report yet", stats)
	}
}

func TestRecentEndpointReturnsUpdates(t *testing.T) {
	d := New(docs.NewDocGenerator(t.TempDir()))
	r := setupRouter(d)

	d.Start(3)
	d.Update(1, "mod.a")
	d.Update(2, "mod.b")

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/dashboard/recent")
	if err != nil {
		t.Fatalf("GET /api/dashboard/recent: %v", err)
	}
	defer resp.Body.Close()

	var rr recentResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		t.Fatalf("decoding recent: %v", err)
	}
	if len(rr.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(rr.Entries))
	}
	if rr.Entries[0].Message != "mod.a" || rr.Entries[1].Message != "mod.b" {
		t.Errorf("Entries = %+v", rr.Entries)
	}
}

func TestIndexShowsInProgressBeforeSummary(t *testing.T) {
	d := New(docs.NewDocGenerator(t.TempDir()))
	r := setupRouter(d)
	d.Start(1)
	d.Update(1, "mod.only")

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	var buf strings.Builder
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "in progress") {
		t.Errorf("body = %q, want an in-progress page", buf.String())
	}
}

func TestIndexRendersReportAfterSummary(t *testing.T) {
	d := New(docs.NewDocGenerator(t.TempDir()))
	r := setupRouter(d)
	d.Start(1)
	d.Update(1, "mod.greet")
	d.Finish()

	components := depgraph.ComponentMap{
		"mod.greet": {ID: "mod.greet", Kind: depgraph.KindFunction, HasDoc: true, DocText: "Greets a user."},
	}
	summary := orchestrator.RunSummary{
		Total: 1,
		OK:    1,
		Outcomes: []orchestrator.Outcome{
			{ComponentID: "mod.greet", Kind: orchestrator.OutcomeOK, Docstring: "Greets a user."},
		},
	}
	d.SetSummary(summary, components)

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	var buf strings.Builder
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "mod.greet") {
		t.Errorf("body = %q, want the rendered report to mention the component", buf.String())
	}
}

func TestWebSocketReceivesBroadcastProgress(t *testing.T) {
	d := New(docs.NewDocGenerator(t.TempDir()))
	r := setupRouter(d)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	// Give the server's handshake goroutine time to register the
	// connection with the hub before the first broadcast.
	time.Sleep(50 * time.Millisecond)
	d.Start(4)

	var ev progressEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}
	if ev.Type != "start" || ev.Total != 4 {
		t.Errorf("event = %+v", ev)
	}
}
