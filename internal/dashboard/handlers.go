package dashboard

import (
	"encoding/json"
	"net/http"
)

type recentResponse struct {
	Entries []recentEntry `json:"entries"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.state.stats())
}

func (d *Dashboard) handleRecent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, recentResponse{Entries: d.state.recentSnapshot()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
