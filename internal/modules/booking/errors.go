package booking

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrDuplicateSlot        = errors.New("booking slot already taken")
	ErrNotFound             = errors.New("booking not found")
	ErrForbidden            = errors.New("forbidden")
	ErrDecoratorNotFound    = errors.New("decorator not found")
	ErrDecoratorNotApproved = errors.New("decorator is not approved")
	ErrBookingClosed        = errors.New("booking is already completed or cancelled")
)

// msgDuplicateSlot is returned to the storefront verbatim.
const msgDuplicateSlot = "This service already booked at same time!"
