package http

import (
	"context"
	"testing"

	"github.com/fleetlink/fleetlink/internal/delivery/http/middleware"
	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/jwt"
	"github.com/google/uuid"
)

// CreateTestUser builds a user for handler tests
func CreateTestUser(id uuid.UUID, email string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    email,
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
}

// CreateTestVehicle builds a vehicle for handler tests
func CreateTestVehicle(id, ownerID uuid.UUID, name string, capacityKG int) *domain.Vehicle {
	return &domain.Vehicle{
		ID:         id,
		OwnerID:    ownerID,
		Name:       name,
		CapacityKG: capacityKG,
		Tyres:      6,
	}
}

// CreateAuthContext returns a context carrying authenticated claims
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, role domain.UserRole) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	return middleware.WithClaims(context.Background(), claims)
}

// AssertSuccess checks a successful API envelope
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError checks an error API envelope
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
