package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleSnapshot handles GET /api/v1/gas-price/{side}
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, newSnapshotResponse(src.Side(), src.Snapshot()))
}

// handleEffective handles GET /api/v1/gas-price/{side}/effective?type=<type>&value=<value>
func (s *Server) handleEffective(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	typ, value := q.Get("type"), q.Get("value")

	price := src.GasPriceFor(gasprice.ParseOption(typ, value))
	if price == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("gas price for %s is not available", src.Side()))
		return
	}

	s.writeJSON(w, http.StatusOK, EffectiveResponse{
		Side:     src.Side(),
		Type:     typ,
		Value:    value,
		GasPrice: weiString(price),
	})
}

// handleHistory handles GET /api/v1/gas-price/{side}/history?limit=<n>
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "gas price history is not enabled")
		return
	}
	src, ok := s.source(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	rows, err := s.history.Recent(r.Context(), src.Side(), limit)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"chain_side": src.Side(),
			"stage":      "history",
			"error":      err,
		}).Error("Failed to read gas price history")
		s.writeError(w, http.StatusInternalServerError, "failed to read gas price history")
		return
	}

	s.writeJSON(w, http.StatusOK, HistoryResponse{Side: src.Side(), Snapshots: rows})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
}

// source resolves the {side} path variable, answering 404 when unknown
func (s *Server) source(w http.ResponseWriter, r *http.Request) (GasPriceSource, bool) {
	name := mux.Vars(r)["side"]
	side, ok := gasprice.ParseSide(name)
	if ok {
		if src, found := s.sources[side]; found {
			return src, true
		}
	}
	s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown chain side %q", name))
	return nil, false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Debug("Failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
