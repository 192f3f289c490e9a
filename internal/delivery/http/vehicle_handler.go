package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fleetlink/fleetlink/internal/delivery/http/middleware"
	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/fleetlink/fleetlink/internal/usecase/vehicle"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// VehicleService defines the vehicle operations the handler depends on.
type VehicleService interface {
	CreateVehicle(ctx context.Context, caller domain.Identity, req *vehicle.VehicleRequest) (*domain.Vehicle, error)
	GetMyVehicles(ctx context.Context, caller domain.Identity) ([]*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, caller domain.Identity, vehicleID uuid.UUID, req *vehicle.VehicleRequest) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, caller domain.Identity, vehicleID uuid.UUID) error
	SearchAvailable(ctx context.Context, req *vehicle.SearchAvailableRequest) (*vehicle.SearchAvailableResult, error)
	GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
}

// VehicleHandler handles vehicle registry requests.
type VehicleHandler struct {
	vehicleService VehicleService
	logger         logger.Logger
}

// NewVehicleHandler creates a vehicle handler.
func NewVehicleHandler(vehicleService VehicleService, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// CreateVehicle registers a vehicle for the calling administrator.
// POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req vehicle.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.vehicleService.CreateVehicle(r.Context(), claims.Identity(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVehicleData) {
			respondError(w, http.StatusBadRequest, "All fields are required")
			return
		}
		h.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	respondData(w, http.StatusCreated, v)
}

// GetMyVehicles returns all vehicles owned by the calling administrator.
// GET /api/v1/vehicles/me
func (h *VehicleHandler) GetMyVehicles(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicles, err := h.vehicleService.GetMyVehicles(r.Context(), claims.Identity())
	if err != nil {
		h.logger.Error("Failed to get vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get vehicles")
		return
	}

	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}
	respondData(w, http.StatusOK, vehicles)
}

// UpdateVehicle updates a vehicle owned by the caller.
// PUT /api/v1/vehicles/{id}
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	var req vehicle.VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.vehicleService.UpdateVehicle(r.Context(), claims.Identity(), vehicleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidVehicleData):
			respondError(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, domain.ErrVehicleNotFound):
			respondError(w, http.StatusNotFound, "Vehicle not found")
		default:
			h.logger.Error("Failed to update vehicle", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update vehicle")
		}
		return
	}

	respondData(w, http.StatusOK, v)
}

// DeleteVehicle deletes a vehicle owned by the caller.
// DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleService.DeleteVehicle(r.Context(), claims.Identity(), vehicleID); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		h.logger.Error("Failed to delete vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	respondData(w, http.StatusOK, map[string]string{"message": "Vehicle deleted successfully"})
}

// GetVehicleByID returns a vehicle by ID.
// GET /api/v1/vehicles/{id}
func (h *VehicleHandler) GetVehicleByID(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	v, err := h.vehicleService.GetVehicleByID(r.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		h.logger.Error("Failed to get vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get vehicle")
		return
	}

	respondData(w, http.StatusOK, v)
}

// SearchAvailable returns vehicles free for the requested capacity, route and
// start time, plus the estimated ride duration.
// GET /api/v1/vehicles/available?capacityRequired=&fromPincode=&toPincode=&startTime=
func (h *VehicleHandler) SearchAvailable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	capacityStr := query.Get("capacityRequired")
	fromPincode := query.Get("fromPincode")
	toPincode := query.Get("toPincode")
	startTimeStr := query.Get("startTime")

	if capacityStr == "" || fromPincode == "" || toPincode == "" || startTimeStr == "" {
		respondError(w, http.StatusBadRequest, "All query parameters are required")
		return
	}

	capacity, err := strconv.Atoi(capacityStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid capacityRequired")
		return
	}

	startTime, err := time.Parse(time.RFC3339, startTimeStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid startTime")
		return
	}

	result, err := h.vehicleService.SearchAvailable(r.Context(), &vehicle.SearchAvailableRequest{
		CapacityRequired: capacity,
		FromPincode:      fromPincode,
		ToPincode:        toPincode,
		StartTime:        startTime,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVehicleData) || errors.Is(err, domain.ErrInvalidPincode) {
			respondError(w, http.StatusBadRequest, "Invalid search parameters")
			return
		}
		h.logger.Error("Failed to search vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to search vehicles")
		return
	}

	respondData(w, http.StatusOK, result)
}
