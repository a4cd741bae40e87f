package weberr

import (
	"net/http"

	"github.com/irsalhamdi/smartshop/i18n"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RequestError marks an error as caused by the request rather than by the
// storefront itself.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// Respond answers with body instead of the usual ErrorResponse.
func Respond(err error, body any, status int, opts ...Opt) error {
	return Wrap(&RequestError{Err: err}, append(opts, WithResponse(body, status))...)
}

func NewError(err error, msg string, status int, opts ...Opt) error {
	return Respond(err, &ErrorResponse{Error: msg}, status, opts...)
}

// Translated answers with the message under key in the language the request
// asks for.
func Translated(r *http.Request, err error, key string, status int, opts ...Opt) error {
	return NewError(err, i18n.T(i18n.FromRequest(r), key), status, opts...)
}

// Backend answers with the customer friendly version of an error coming
// from the remote API.
func Backend(r *http.Request, err error, status int, opts ...Opt) error {
	return NewError(err, i18n.Friendly(err, i18n.FromRequest(r)), status, opts...)
}

// Invalid answers 400 with the validation message itself.
func Invalid(err error, opts ...Opt) error {
	return NewError(err, err.Error(), http.StatusBadRequest, opts...)
}

func NotFound(err error, opts ...Opt) error {
	return NewError(err, "the resource could not be found", http.StatusNotFound, opts...)
}

func NotAuthorized(err error, opts ...Opt) error {
	return NewError(err, "not authorized to access resource", http.StatusUnauthorized, opts...)
}

func BadRequest(err error, opts ...Opt) error {
	return NewError(err, "bad request", http.StatusBadRequest, opts...)
}
