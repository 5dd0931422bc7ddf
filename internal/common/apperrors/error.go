// Package apperrors provides chained application errors that carry an HTTP
// status code. Errors are declared once as package-level templates and derived
// with New/Msg/Err so that errors.Is matches every ancestor in the chain.
package apperrors

import "errors"

// Error defines the interface for application errors. All derivation methods
// return a fresh Error and leave the receiver untouched.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // creates a new error using current as template
	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	SetStatusCode(int) Error               // sets HTTP status code for the error
	StatusCode() int                       // returns the current status code
	ErrorAll() string                      // returns full message including wrapped errors
	UnwrapAll() []error                    // returns all wrapped errors
}

// ErrorAll returns the full message of err, including attached causes when
// err is an application error with expansion enabled.
func ErrorAll(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if errors.As(err, &appErr) {
		return appErr.ErrorAll()
	}
	return err.Error()
}
