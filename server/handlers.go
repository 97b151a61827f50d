package server

import (
	"encoding/json"
	"net/http"

	"github.com/theoremus-urban-solutions/gtfs-shape-validator/formatter"
)

type healthResponse struct {
	Status         string `json:"status"`
	LoadStatus     string `json:"load_status,omitempty"`
	Shapes         int    `json:"shapes"`
	Invalid        int    `json:"invalid"`
	ValidatedEpoch int64  `json:"validated_epoch"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{Status: "starting"}
	if session, at, _ := s.current(); session != nil {
		resp.Status = "ok"
		resp.LoadStatus = string(session.Results.LoadStatus)
		resp.Shapes = len(session.Results.ShapeStats)
		resp.Invalid = session.Results.TotalInvalid()
		resp.ValidatedEpoch = at.Unix()
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleValidation(format string) http.HandlerFunc {
	contentType := "application/json"
	if format == "yaml" {
		contentType = "application/yaml"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		session, _, cache := s.current()
		if session == nil {
			writeError(w, http.StatusServiceUnavailable, "validation has not run yet")
			return
		}
		buf, err := cache.get(cache.memoKey("validation", format), func() ([]byte, error) {
			if format == "yaml" {
				return formatter.BuildYAML(session.Results)
			}
			return formatter.BuildJSON(session.Results)
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(buf)
	}
}

func (s *Server) handleShapes(w http.ResponseWriter, r *http.Request) {
	session, _, cache := s.current()
	if session == nil {
		writeError(w, http.StatusServiceUnavailable, "validation has not run yet")
		return
	}
	buf, err := cache.get(cache.memoKey("shapes", "geojson"), func() ([]byte, error) {
		return formatter.BuildGeoJSON(session, nil)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(buf)
}

// handleVehicles is never cached; positions change on every request.
func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	session, _, _ := s.current()
	if session == nil {
		writeError(w, http.StatusServiceUnavailable, "validation has not run yet")
		return
	}
	if s.opts.Vehicles == nil {
		writeError(w, http.StatusNotFound, "no VehiclePositions feed configured")
		return
	}
	snap, err := s.opts.Vehicles(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	results, _ := s.opts.Validator.PlaceVehicles(session, snap)
	buf, err := formatter.BuildGeoJSON(session, results)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(buf)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.handleHealth(w, r)
}
