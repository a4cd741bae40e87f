// Package weberr decorates errors with what the storefront answers for them
// and what gets logged alongside.
package weberr

import "errors"

// Opt decorates an error.
type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithResponse sets the body and status the browser receives. The outermost
// response wins.
func WithResponse(body any, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

func WithFields(fields map[string]any) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

func WithField(key string, value any) Opt {
	return WithFields(map[string]any{key: value})
}

// Response returns the body and status set by WithResponse, if any.
func Response(err error) (body any, status int, ok bool) {
	var re *responseError
	if errors.As(err, &re) {
		return re.body, re.status, true
	}
	return nil, 0, false
}

// Fields collects the log fields of every layer of err. Outer layers override
// inner ones.
func Fields(err error) (map[string]any, bool) {
	var out map[string]any
	for {
		var fe *fieldsError
		if !errors.As(err, &fe) {
			break
		}
		if out == nil {
			out = make(map[string]any, len(fe.fields))
		}
		for k, v := range fe.fields {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
		err = fe.error
	}
	return out, out != nil
}

type responseError struct {
	error
	body   any
	status int
}

func (e *responseError) Unwrap() error { return e.error }

type fieldsError struct {
	error
	fields map[string]any
}

func (e *fieldsError) Unwrap() error { return e.error }
