package reservation

import "restaurant-console/internal/pkg/errs"

var (
	ErrInvalidTransition = errs.New("invalid transition")
	ErrTerminalState     = errs.New("reservation is in a terminal state")

	ErrInvalidStatus        = errs.New("invalid reservation status")
	ErrInvalidInitialStatus = errs.New("reservation must start as pending or confirmed")
	ErrUnknownAction        = errs.New("unknown action")
	ErrInvalidEmail         = errs.New("invalid email format")
	ErrInvalidGuestCount    = errs.New("number of guests must be at least 1")
	ErrCustomerNameRequired = errs.New("customer name is required")
	ErrInvalidSlot          = errs.New("invalid reservation slot")
	ErrRestaurantRequired   = errs.New("restaurant id is required")
)
