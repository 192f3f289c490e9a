package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/fleetlink/fleetlink/internal/usecase/vehicle"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVehicleService mocks the vehicle service used by the handler
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, caller domain.Identity, req *vehicle.VehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetMyVehicles(ctx context.Context, caller domain.Identity) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) UpdateVehicle(ctx context.Context, caller domain.Identity, vehicleID uuid.UUID, req *vehicle.VehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, caller, vehicleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) DeleteVehicle(ctx context.Context, caller domain.Identity, vehicleID uuid.UUID) error {
	args := m.Called(ctx, caller, vehicleID)
	return args.Error(0)
}

func (m *MockVehicleService) SearchAvailable(ctx context.Context, req *vehicle.SearchAvailableRequest) (*vehicle.SearchAvailableResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.SearchAvailableResult), args.Error(1)
}

func (m *MockVehicleService) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func TestVehicleHandler_CreateVehicle(t *testing.T) {
	adminID := uuid.New()
	vehicleID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockVehicleService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "successful creation",
			requestBody: vehicle.VehicleRequest{
				Name:       "Tata 407",
				CapacityKG: 2000,
				Tyres:      6,
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("domain.Identity"), mock.AnythingOfType("*vehicle.VehicleRequest")).
					Return(&domain.Vehicle{
						ID:         vehicleID,
						OwnerID:    adminID,
						Name:       "Tata 407",
						CapacityKG: 2000,
						Tyres:      6,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				if data, ok := resp["data"].(map[string]interface{}); ok {
					assert.Equal(t, "Tata 407", data["name"])
					assert.Equal(t, float64(2000), data["capacity_kg"])
				}
			},
		},
		{
			name: "missing fields",
			requestBody: vehicle.VehicleRequest{
				Name: "Truck",
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("domain.Identity"), mock.AnythingOfType("*vehicle.VehicleRequest")).
					Return(nil, domain.ErrInvalidVehicleData)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, "All fields are required", resp["error"])
			},
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", bytes.NewReader(body))
			req = req.WithContext(CreateAuthContext(t, adminID, "admin@example.com", domain.RoleAdmin))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateVehicle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_GetMyVehicles(t *testing.T) {
	adminID := uuid.New()
	vehicles := []*domain.Vehicle{
		CreateTestVehicle(uuid.New(), adminID, "Truck A", 2000),
		CreateTestVehicle(uuid.New(), adminID, "Truck B", 1500),
	}

	tests := []struct {
		name           string
		mockSetup      func(*MockVehicleService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "two vehicles",
			mockSetup: func(m *MockVehicleService) {
				m.On("GetMyVehicles", mock.Anything, mock.AnythingOfType("domain.Identity")).
					Return(vehicles, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				if data, ok := resp["data"].([]interface{}); ok {
					assert.Len(t, data, 2)
				}
			},
		},
		{
			name: "no vehicles yields empty list",
			mockSetup: func(m *MockVehicleService) {
				m.On("GetMyVehicles", mock.Anything, mock.AnythingOfType("domain.Identity")).
					Return([]*domain.Vehicle(nil), nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data, ok := resp["data"].([]interface{})
				assert.True(t, ok, "data must be a JSON array, not null")
				assert.Len(t, data, 0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/me", nil)
			req = req.WithContext(CreateAuthContext(t, adminID, "admin@example.com", domain.RoleAdmin))

			w := httptest.NewRecorder()
			handler.GetMyVehicles(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_UpdateVehicle(t *testing.T) {
	adminID := uuid.New()
	vehicleID := uuid.New()

	tests := []struct {
		name           string
		vehicleID      string
		requestBody    interface{}
		mockSetup      func(*MockVehicleService)
		expectedStatus int
	}{
		{
			name:      "successful update",
			vehicleID: vehicleID.String(),
			requestBody: vehicle.VehicleRequest{
				Name:       "Repainted",
				CapacityKG: 1800,
				Tyres:      6,
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("UpdateVehicle", mock.Anything, mock.AnythingOfType("domain.Identity"), vehicleID, mock.AnythingOfType("*vehicle.VehicleRequest")).
					Return(&domain.Vehicle{ID: vehicleID, OwnerID: adminID, Name: "Repainted", CapacityKG: 1800, Tyres: 6}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "not owned or absent",
			vehicleID: vehicleID.String(),
			requestBody: vehicle.VehicleRequest{
				Name:       "Repainted",
				CapacityKG: 1800,
				Tyres:      6,
			},
			mockSetup: func(m *MockVehicleService) {
				m.On("UpdateVehicle", mock.Anything, mock.AnythingOfType("domain.Identity"), vehicleID, mock.AnythingOfType("*vehicle.VehicleRequest")).
					Return(nil, domain.ErrVehicleNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid UUID",
			vehicleID:      "not-a-uuid",
			requestBody:    vehicle.VehicleRequest{Name: "X", CapacityKG: 1, Tyres: 4},
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPut, "/api/v1/vehicles/"+tt.vehicleID, bytes.NewReader(body))
			req = req.WithContext(CreateAuthContext(t, adminID, "admin@example.com", domain.RoleAdmin))
			req.Header.Set("Content-Type", "application/json")

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.vehicleID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.UpdateVehicle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_DeleteVehicle(t *testing.T) {
	adminID := uuid.New()
	vehicleID := uuid.New()

	tests := []struct {
		name           string
		vehicleID      string
		mockSetup      func(*MockVehicleService)
		expectedStatus int
	}{
		{
			name:      "successful deletion",
			vehicleID: vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("DeleteVehicle", mock.Anything, mock.AnythingOfType("domain.Identity"), vehicleID).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "not owned or absent",
			vehicleID: vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("DeleteVehicle", mock.Anything, mock.AnythingOfType("domain.Identity"), vehicleID).
					Return(domain.ErrVehicleNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/"+tt.vehicleID, nil)
			req = req.WithContext(CreateAuthContext(t, adminID, "admin@example.com", domain.RoleAdmin))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.vehicleID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.DeleteVehicle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_GetVehicleByID(t *testing.T) {
	vehicleID := uuid.New()
	ownerID := uuid.New()

	tests := []struct {
		name           string
		vehicleID      string
		mockSetup      func(*MockVehicleService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:      "successful lookup",
			vehicleID: vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByID", mock.Anything, vehicleID).
					Return(CreateTestVehicle(vehicleID, ownerID, "Tata 407", 2000), nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				if data, ok := resp["data"].(map[string]interface{}); ok {
					assert.Equal(t, "Tata 407", data["name"])
				}
			},
		},
		{
			name:      "vehicle not found",
			vehicleID: vehicleID.String(),
			mockSetup: func(m *MockVehicleService) {
				m.On("GetVehicleByID", mock.Anything, vehicleID).
					Return(nil, domain.ErrVehicleNotFound)
			},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name:           "invalid UUID",
			vehicleID:      "invalid-uuid",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewDevelopment())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+tt.vehicleID, nil)
			req = req.WithContext(CreateAuthContext(t, uuid.New(), "user@example.com", domain.RoleUser))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.vehicleID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.GetVehicleByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_SearchAvailable(t *testing.T) {
	adminID := uuid.New()
	free := CreateTestVehicle(uuid.New(), adminID, "Free Truck", 2000)
	startTime := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockVehicleService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:  "available vehicle with duration",
			query: "?capacityRequired=1500&fromPincode=560001&toPincode=560020&startTime=" + startTime.Format(time.RFC3339),
			mockSetup: func(m *MockVehicleService) {
				m.On("SearchAvailable", mock.Anything, mock.AnythingOfType("*vehicle.SearchAvailableRequest")).
					Return(&vehicle.SearchAvailableResult{
						Vehicles:                   []*domain.Vehicle{free},
						EstimatedRideDurationHours: 19,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				if data, ok := resp["data"].(map[string]interface{}); ok {
					assert.Equal(t, float64(19), data["estimated_ride_duration_hours"])
					if list, ok := data["vehicles"].([]interface{}); ok {
						assert.Len(t, list, 1)
					}
				}
			},
		},
		{
			name:           "missing query parameters",
			query:          "?capacityRequired=1500&fromPincode=560001",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, "All query parameters are required", resp["error"])
			},
		},
		{
			name:           "non-numeric capacity",
			query:          "?capacityRequired=abc&fromPincode=560001&toPincode=560020&startTime=" + startTime.Format(time.RFC3339),
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name:           "malformed start time",
			query:          "?capacityRequired=1500&fromPincode=560001&toPincode=560020&startTime=tomorrow",
			mockSetup:      func(m *MockVehicleService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name:  "invalid pincode reported by the service",
			query: "?capacityRequired=1500&fromPincode=abcdef&toPincode=560020&startTime=" + startTime.Format(time.RFC3339),
			mockSetup: func(m *MockVehicleService) {
				m.On("SearchAvailable", mock.Anything, mock.AnythingOfType("*vehicle.SearchAvailableRequest")).
					Return(nil, domain.ErrInvalidPincode)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockVehicleService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/available"+tt.query, nil)
			req = req.WithContext(CreateAuthContext(t, uuid.New(), "user@example.com", domain.RoleUser))

			w := httptest.NewRecorder()
			handler.SearchAvailable(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}
