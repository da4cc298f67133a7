// Package apperrors provides chainable errors that carry an HTTP-style status
// code. Every derived error keeps its template as a base, so errors.Is matches
// any ancestor in the chain as well as any error attached with Err or MsgErr.
package apperrors

// Error extends the standard error interface with derivation and status code
// helpers. All methods return a new Error and never mutate the receiver.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // new message, current error as base
	Msg(msg string) Error                  // new message, wraps the current error
	MsgErr(msg string, err ...error) Error // new message, wraps current and extra errors
	Err(err ...error) Error                // same message, attaches extra errors
	Prefix(string) Error                   // copy with a message prefix
	SetStatusCode(int) Error               // copy with a status code
	StatusCode() int
	ErrorAll() string // message followed by all attached errors
	UnwrapAll() []error
}
