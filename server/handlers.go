package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
)

func (a *App) handleRequired(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	operation := r.URL.Query().Get("operation")
	if service == "" || operation == "" {
		http.Error(w, "missing query parameters service, operation", http.StatusBadRequest)
		return
	}
	resp, err := a.db.Properties(service, operation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "operation not tracked", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

func (a *App) handleServices(w http.ResponseWriter, r *http.Request) {
	list, err := a.db.Services()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (a *App) handleOperations(w http.ResponseWriter, r *http.Request) {
	list, err := a.db.Operations(r.URL.Query().Get("q"), 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// handleCollisions lists operations defined by more than one service, the
// ones that need a directive hint at call sites.
func (a *App) handleCollisions(w http.ResponseWriter, r *http.Request) {
	list, err := a.db.Operations("", 2)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := a.db.Stats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, st)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
