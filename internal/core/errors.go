package core

import "errors"

// Domain errors. These are expected outcomes, not failures: scene handlers
// turn each of them into a specific reply message and they never reach the
// transport layer as errors.
var (
	// Marking errors
	ErrNotAnEmployee         = errors.New("you are not on the employee roster")
	ErrAlreadyCheckedIn      = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut     = errors.New("you have already checked out today")
	ErrNoCheckInToday        = errors.New("you have not checked in today")
	ErrOutOfRange            = errors.New("you are outside the office geofence")
	ErrLocationRequired      = errors.New("a location is required to check in")
	ErrLocationNotConfigured = errors.New("the office location has not been configured")

	// Report errors
	ErrEmployeeNotFound = errors.New("employee not found")
)
