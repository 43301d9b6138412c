package browser

import (
	"errors"
	"fmt"
)

// ErrTooManyRedirects is the sentinel an HttpClient implementation
// should wrap when it gives up following redirects; doOpen recognizes it
// and upgrades the result to a TooManyRedirectsError carrying the last
// Document reached.
var ErrTooManyRedirects = errors.New("browser: too many redirects")

// InputNotFoundError is returned by Form.GetField/SetField when no form
// element carries the requested name.
type InputNotFoundError struct {
	Name string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("browser: no input named %q", e.Name)
}

// UnsupportedFormError is returned when a form accessor hits ambiguous
// state it refuses to guess about: duplicate non-radio names, multiple
// selected options where one was expected, multiple checked radios, or an
// unknown option/radio value. Setting checked on a non-checkable input is
// reported by htmltree.Input.SetChecked as htmltree.ErrNotCheckable.
type UnsupportedFormError struct {
	Reason string
}

func (e *UnsupportedFormError) Error() string {
	return "browser: unsupported form: " + e.Reason
}

// HttpError is returned for a non-2xx final response; Document is still
// populated with the parsed body so callers can inspect an error page.
type HttpError struct {
	Status   int
	Document *Document
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("browser: http status %d for %s", e.Status, e.Document.URL)
}

// TooManyRedirectsError specializes HttpError for a redirect chain that
// exceeded the transport's configured limit.
type TooManyRedirectsError struct {
	HttpError
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("browser: too many redirects, last status %d for %s", e.Status, e.Document.URL)
}
