package app

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrMissingCredentials    = errors.New("username and password are required")
	ErrPasswordTooShort      = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong       = errors.New("password must be at most 72 bytes")
	ErrUsernameTooLong       = errors.New("username must be at most 64 characters")
	ErrUsernameExists        = errors.New("username already exists")
	ErrInvalidCredential     = errors.New("invalid username or password")
	ErrMissingAdminPassword  = errors.New("password is required")
	ErrInvalidAdminPassword  = errors.New("invalid admin password")
	ErrMissingCoordinates    = errors.New("latitude and longitude are required")
	ErrCoordinatesOutOfRange = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	ErrMarkerNotFound        = errors.New("marker not found")
)

type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
)

// Classify maps a service error onto the API error taxonomy; anything unknown is a store failure.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, ErrUsernameTooLong),
		errors.Is(err, ErrMissingAdminPassword),
		errors.Is(err, ErrMissingCoordinates),
		errors.Is(err, ErrCoordinatesOutOfRange):
		return KindValidation
	case errors.Is(err, ErrUsernameExists):
		return KindConflict
	case errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrInvalidAdminPassword):
		return KindAuth
	case errors.Is(err, ErrMarkerNotFound):
		return KindNotFound
	default:
		return KindStore
	}
}
