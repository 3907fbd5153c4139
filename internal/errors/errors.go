package errors

import "fmt"

const (
	ErrNotFound     = "NOT_FOUND"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrConflict     = "CONFLICT"
	ErrValidation   = "VALIDATION"
	ErrUnavailable  = "UNAVAILABLE"
	ErrInternal     = "INTERNAL"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func Wrap(code, msg string, err error) *DomainError {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// --- Generic ---

func NewNotFound(entity, id string) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("%s with id %s not found", entity, id)}
}

func NewUnauthorized(msg string) *DomainError {
	return &DomainError{Code: ErrUnauthorized, Message: msg}
}

func NewForbidden(msg string) *DomainError {
	return &DomainError{Code: ErrForbidden, Message: msg}
}

func NewConflict(msg string) *DomainError {
	return &DomainError{Code: ErrConflict, Message: msg}
}

func NewValidation(msg string) *DomainError {
	return &DomainError{Code: ErrValidation, Message: msg}
}

func NewUnavailable(service string, err error) *DomainError {
	return &DomainError{Code: ErrUnavailable, Message: service + " unavailable", Err: err}
}

func NewInternal(msg string, err error) *DomainError {
	return &DomainError{Code: ErrInternal, Message: msg, Err: err}
}

// --- Tracking ---

func OrderNotFound(orderID int64) *DomainError {
	return NewNotFound("order", fmt.Sprintf("%d", orderID))
}

func RouteNotFound(orderID int64) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("no route found for order %d", orderID)}
}

func NoTrackingData(orderID int64) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("no tracking data found for order %d", orderID)}
}

func NoDroneAssigned(orderID int64) *DomainError {
	return &DomainError{Code: ErrValidation, Message: fmt.Sprintf("no drone assigned to order %d", orderID)}
}

// --- Simulation ---

func SimulationAlreadyRunning(orderID int64) *DomainError {
	return NewConflict(fmt.Sprintf("simulation already running for order %d", orderID))
}

func SimulationNotRunning(orderID int64) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("no running simulation for order %d", orderID)}
}

// --- Fleet ---

func MaintenanceNotFound(id int64) *DomainError {
	return NewNotFound("maintenance record", fmt.Sprintf("%d", id))
}

func AlertNotFound(id int64) *DomainError {
	return NewNotFound("alert", fmt.Sprintf("%d", id))
}
