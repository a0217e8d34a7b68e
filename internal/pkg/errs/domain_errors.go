package errs

// Sentinel errors shared by the usecase layers and the HTTP adapter
var (
	// Lookup errors
	ErrRestaurantNotFound  = New("restaurant not found")
	ErrReservationNotFound = New("reservation not found")

	// Write errors
	ErrConcurrentModification = New("reservation was modified concurrently")
	ErrDuplicateReservation   = New("duplicate reservation")

	// Input errors
	ErrInvalidDate = New("invalid date")

	// Operation errors
	ErrOperationCanceled       = New("operation canceled")
	ErrDatabaseOperationFailed = New("database operation failed")
)
