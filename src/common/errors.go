package common

import (
	"errors"
	"fmt"
)

var (
	ErrUnitNotFound       = errors.New("unit not found")
	ErrEmptyItems         = errors.New("booking needs at least one item")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrMismatchedUnit     = errors.New("ticket type does not belong to unit")
	ErrPastDated          = errors.New("unit date has already passed")
	ErrNotFound           = errors.New("booking not found")
	ErrForbidden          = errors.New("not allowed")
	ErrAlreadyCancelled   = errors.New("booking is already cancelled")
	ErrAlreadyUsed        = errors.New("ticket has already been used")
	ErrBadSignature       = errors.New("invalid ticket signature")
	ErrTicketNotFound     = errors.New("ticket not found")
)

// CapacityError reports a reservation that would oversell the unit.
type CapacityError struct {
	UnitID    uint
	Requested int64
	Remaining int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough capacity on unit %d: requested %d, remaining %d", e.UnitID, e.Requested, e.Remaining)
}

// QuantityError reports a line exceeding the per-booking limit of its type.
type QuantityError struct {
	TicketTypeID uint
	Requested    int64
	Max          int64
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("quantity %d exceeds limit %d for ticket type %d", e.Requested, e.Max, e.TicketTypeID)
}
