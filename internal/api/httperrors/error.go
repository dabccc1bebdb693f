package httperrors

import (
	"fmt"
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

// HTTPError is the internal error representation carried through echo until
// the error handler renders its public part.
type HTTPError struct {
	types.PublicHTTPError
	Internal       error
	AdditionalData map[string]interface{}
}

// NewHTTPError returns a new HTTPError with the given status code, type and
// title.
func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  swag.String(errorType),
			Title: swag.String(title),
		},
	}
}

// NewHTTPErrorf returns a new HTTPError with a formatted title.
func NewHTTPErrorf(code int, errorType string, titleFormat string, args ...interface{}) *HTTPError {
	return NewHTTPError(code, errorType, fmt.Sprintf(titleFormat, args...))
}

// NewFromEcho converts an *echo.HTTPError into our HTTPError representation.
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	title := http.StatusText(e.Code)
	if msg, ok := e.Message.(string); ok {
		title = msg
	}

	return NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, title)
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", *e.Code, *e.Type, *e.Title, e.Internal)
	}

	return fmt.Sprintf("HTTPError %d (%s): %s", *e.Code, *e.Type, *e.Title)
}

// HTTPValidationError is an HTTPError carrying per-field validation detail.
type HTTPValidationError struct {
	types.PublicHTTPValidationError
	Internal       error
	AdditionalData map[string]interface{}
}

// NewHTTPValidationError returns a new HTTPValidationError with the given
// detail list.
func NewHTTPValidationError(code int, errorType string, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		PublicHTTPValidationError: types.PublicHTTPValidationError{
			PublicHTTPError: types.PublicHTTPError{
				Code:  swag.Int64(int64(code)),
				Type:  swag.String(errorType),
				Title: swag.String(title),
			},
			ValidationErrors: validationErrors,
		},
	}
}

func (e *HTTPValidationError) Error() string {
	return fmt.Sprintf("HTTPValidationError %d (%s): %s (%d fields)", *e.Code, *e.Type, *e.Title, len(e.ValidationErrors))
}
