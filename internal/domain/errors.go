package domain

import "errors"

var (
	ErrValidation    = errors.New("invalid rcon config value")
	ErrNotFound      = errors.New("rcon config source not found")
	ErrUnknownSource = errors.New("unknown rcon config source")
	ErrQueryTimeout  = errors.New("rcon query timed out")
	ErrEmptyCommand  = errors.New("rcon command cannot be empty")
	ErrCommandFailed = errors.New("rcon command failed")
	ErrRCONDisabled  = errors.New("rcon is disabled in host config")
	ErrDialRCON      = errors.New("failed to connect to rcon")
	ErrNotConnected  = errors.New("rcon is not connected")
	ErrUnknownDriver = errors.New("unknown rcon driver")
	ErrReadConfig    = errors.New("failed to read config file")
	ErrFormatConfig  = errors.New("config file format invalid")
)

// TimeoutError is returned by a query that stayed unanswered after the one
// reconnect attempt. Message is already localised for the operator. Cause is set
// when the reconnect itself failed.
type TimeoutError struct {
	Command string
	Message string
	Cause   error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e *TimeoutError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrQueryTimeout, e.Cause}
	}

	return []error{ErrQueryTimeout}
}
