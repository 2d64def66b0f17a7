// Package dashboard adapts the teacher's codebase-chat dashboard into a
// live view of one Orchestrator run: a progress feed pushed over a
// WebSocket while components are being documented, and the rendered run
// report once the run finishes.
package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/docs"
	"github.com/docwright/docwright/internal/orchestrator"
)

// Dashboard serves a live view of a docstring-generation run. It
// implements progress.Reporter directly, so an Orchestrator can drive it
// the same way it drives any other reporter.
type Dashboard struct {
	state  *state
	docGen *docs.DocGenerator
	hub    *hub
}

// New creates a Dashboard that renders its final report with docGen.
func New(docGen *docs.DocGenerator) *Dashboard {
	return &Dashboard{
		state:  newState(),
		docGen: docGen,
		hub:    newHub(),
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.handleIndex)
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/api/dashboard/recent", d.handleRecent)
	r.Get("/ws/progress", d.handleWebSocket)
}

// Start implements progress.Reporter.
func (d *Dashboard) Start(total int) {
	d.state.start(total)
	d.hub.broadcast(progressEvent{Type: "start", Total: total})
}

// Update implements progress.Reporter.
func (d *Dashboard) Update(current int, message string) {
	d.state.update(current, message)
	d.hub.broadcast(progressEvent{Type: "update", Current: current, Message: message})
}

// Finish implements progress.Reporter.
func (d *Dashboard) Finish() {
	d.state.finish()
	d.hub.broadcast(progressEvent{Type: "finish"})
}

// SetSummary records the run's final outcome so the index page and stats
// endpoint can serve it. Call once Orchestrator.Run has returned.
func (d *Dashboard) SetSummary(summary orchestrator.RunSummary, components depgraph.ComponentMap) {
	d.state.setSummary(summary, components)
	d.hub.broadcast(progressEvent{Type: "summary", Total: summary.Total})
}

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	summary, components, ok := d.state.snapshotSummary()
	if !ok {
		stats := d.state.stats()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><h1>docwright run in progress</h1><p>" +
			strconv.Itoa(stats.Current) + " / " + strconv.Itoa(stats.Total) + ": " + stats.Message +
			"</p></body></html>"))
		return
	}

	html, err := d.docGen.RenderRunReportHTML(summary, components)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
