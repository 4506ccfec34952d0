package services

import (
	"errors"
	"fmt"

	"motel-backend/store"
)

type ErrorKind string

const (
	KindValidation  ErrorKind = "VALIDATION_ERROR"
	KindConflict    ErrorKind = "STATE_CONFLICT"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindPersistence ErrorKind = "PERSISTENCE_ERROR"
	KindConcurrency ErrorKind = "CONCURRENCY_CONFLICT"
)

// Error is what every lodging operation returns on failure. Code is stable
// and is what API clients switch on; two Errors match under errors.Is when
// their codes are equal.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy carrying a more specific message.
func (e *Error) With(format string, args ...interface{}) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func newErr(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrInvalidPeopleCount   = newErr(KindValidation, "INVALID_PEOPLE_COUNT", "people count out of range for room type")
	ErrInvalidRefundAmount  = newErr(KindValidation, "INVALID_REFUND_AMOUNT", "refund amount must be between 0 and the amount paid")
	ErrMissingReason        = newErr(KindValidation, "MISSING_REASON", "a reason is required")
	ErrInvalidPayment       = newErr(KindValidation, "INVALID_PAYMENT", "invalid payment entry")
	ErrInvalidAmount        = newErr(KindValidation, "INVALID_AMOUNT", "amount must be greater than zero")
	ErrInvalidToleranceType = newErr(KindValidation, "INVALID_TOLERANCE_TYPE", "tolerance type must be PERSON_LEFT or ROOM_EMPTY")
	ErrInvalidRefundType    = newErr(KindValidation, "INVALID_REFUND_TYPE", "refund type must be full, partial or none")
	ErrInvalidRoomType      = newErr(KindValidation, "INVALID_ROOM_TYPE", "invalid room type definition")
	ErrInvalidRoom          = newErr(KindValidation, "INVALID_ROOM", "invalid room definition")

	ErrInvalidTransition       = newErr(KindConflict, "INVALID_TRANSITION", "room status transition not allowed")
	ErrRoomNotAvailable        = newErr(KindConflict, "ROOM_NOT_AVAILABLE", "room is not available")
	ErrOverpaymentNotAllowed   = newErr(KindConflict, "OVERPAYMENT_NOT_ALLOWED", "payment exceeds the remaining amount")
	ErrMaxPeopleExceeded       = newErr(KindConflict, "MAX_PEOPLE_EXCEEDED", "room type is at maximum occupancy")
	ErrStayNotActive           = newErr(KindConflict, "STAY_NOT_ACTIVE", "stay is already closed")
	ErrToleranceNotApplicable  = newErr(KindConflict, "TOLERANCE_NOT_APPLICABLE", "tolerance does not apply to hotel room types")
	ErrToleranceNotExpired     = newErr(KindConflict, "TOLERANCE_NOT_EXPIRED", "no expired tolerance window")
	ErrToleranceAlreadyStarted = newErr(KindConflict, "TOLERANCE_ALREADY_STARTED", "a tolerance window is already open")
	ErrOccupancyManagedByStay  = newErr(KindConflict, "OCCUPANCY_MANAGED_BY_STAY", "occupied status is controlled by check-in and checkout")
	ErrDuplicate               = newErr(KindConflict, "DUPLICATE", "record already exists")

	ErrRoomNotFound     = newErr(KindNotFound, "ROOM_NOT_FOUND", "room not found")
	ErrRoomTypeNotFound = newErr(KindNotFound, "ROOM_TYPE_NOT_FOUND", "room type not found")
	ErrStayNotFound     = newErr(KindNotFound, "STAY_NOT_FOUND", "stay not found")
	ErrOrderNotFound    = newErr(KindNotFound, "ORDER_NOT_FOUND", "sales order not found")

	ErrPersistence         = newErr(KindPersistence, "PERSISTENCE_ERROR", "storage operation failed")
	ErrConcurrencyConflict = newErr(KindConcurrency, "CONCURRENCY_CONFLICT", "room was taken by a concurrent operation")
)

// fromStore converts a store error into an *Error. notFound is used for
// store.ErrNotFound; errors that already are *Error pass through.
func fromStore(err error, notFound *Error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, store.ErrConflict):
		cp := *ErrConcurrencyConflict
		cp.Err = err
		return &cp
	case errors.Is(err, store.ErrDuplicate):
		cp := *ErrDuplicate
		cp.Err = err
		return &cp
	}
	cp := *ErrPersistence
	cp.Err = err
	return &cp
}

// KindOf reports the kind of err, treating unknown errors as persistence failures.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// CodeOf reports the stable code of err.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrPersistence.Code
}
