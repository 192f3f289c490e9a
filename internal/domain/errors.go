package domain

import "errors"

// Domain errors, shared by every layer of the application.

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Vehicle errors
var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrInvalidVehicleData = errors.New("invalid vehicle data")
)

// Booking errors
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidBookingData = errors.New("invalid booking data")
	ErrInvalidPincode     = errors.New("invalid pincode")
	ErrBookingConflict    = errors.New("vehicle is already booked for this time slot")
)

// Geo proxy errors
var (
	ErrPincodeNotFound = errors.New("pincode not found")
	ErrRouteNotFound   = errors.New("no route found")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrBadRequest = errors.New("bad request")
)
