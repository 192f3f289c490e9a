package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/infrastructure/geo"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
)

// GeoHandler proxies geocoding and routing lookups to the external services.
type GeoHandler struct {
	geoClient geo.Client
	logger    logger.Logger
}

// NewGeoHandler creates a geo handler.
func NewGeoHandler(geoClient geo.Client, logger logger.Logger) *GeoHandler {
	return &GeoHandler{
		geoClient: geoClient,
		logger:    logger,
	}
}

// Geocode resolves a pincode to coordinates.
// GET /api/v1/geo/geocode?pincode=440001
func (h *GeoHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	pincode := r.URL.Query().Get("pincode")
	if pincode == "" {
		respondError(w, http.StatusBadRequest, "Pincode is required")
		return
	}

	location, err := h.geoClient.Geocode(r.Context(), pincode)
	if err != nil {
		if errors.Is(err, domain.ErrPincodeNotFound) {
			respondError(w, http.StatusNotFound, "Pincode not found")
			return
		}
		h.logger.Error("Geocoding failed", map[string]interface{}{
			"error":   err.Error(),
			"pincode": pincode,
		})
		respondError(w, http.StatusInternalServerError, "Geocoding failed")
		return
	}

	respondData(w, http.StatusOK, location)
}

// Route computes a driving route between two coordinates.
// GET /api/v1/geo/route?fromLat=&fromLon=&toLat=&toLon=
func (h *GeoHandler) Route(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	coords := make([]float64, 0, 4)
	for _, name := range []string{"fromLat", "fromLon", "toLat", "toLon"} {
		raw := query.Get(name)
		if raw == "" {
			respondError(w, http.StatusBadRequest, "Missing coordinates")
			return
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid coordinate: "+name)
			return
		}
		coords = append(coords, value)
	}

	route, err := h.geoClient.Route(r.Context(), coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		if errors.Is(err, domain.ErrRouteNotFound) {
			respondError(w, http.StatusNotFound, "No route found")
			return
		}
		h.logger.Error("Routing failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Routing service failed")
		return
	}

	respondData(w, http.StatusOK, route)
}
