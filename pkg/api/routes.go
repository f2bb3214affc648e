package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiPrefix = "/api/v1"

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// v1 routes live on the root router so a method mismatch answers 405
	r.HandleFunc(apiPrefix+"/gas-price/{side}", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/gas-price/{side}/effective", s.handleEffective).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/gas-price/{side}/history", s.handleHistory).Methods(http.MethodGet)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return r
}
