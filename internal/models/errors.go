package models

import "errors"

// Common errors used throughout the application
var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidDiscount  = errors.New("invalid discount")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCartBusy         = errors.New("cart is being updated, try again")
)
