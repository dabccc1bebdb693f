package util

import (
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	openapierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

// BindAndValidateBody binds the request body to v and runs its go-openapi
// validation, translating failures into a public HTTPValidationError.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return echo.ErrInternalServerError
	}

	if err := binder.BindBody(c, v); err != nil {
		return err
	}

	return validatePayload(c, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		switch e := err.(type) {
		case *openapierrors.CompositeError:
			LogFromEchoContext(c).Debug().Errs("validation_errors", e.Errors).Msg("Payload validation failed")
			return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeValidation, "Payload validation failed.", formatValidationErrors(e))
		case *openapierrors.Validation:
			LogFromEchoContext(c).Debug().AnErr("validation_error", e).Msg("Payload validation failed")
			return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeValidation, "Payload validation failed.", []*types.HTTPValidationErrorDetail{
				{
					Key:   swag.String(e.Name),
					In:    swag.String(e.In),
					Error: swag.String(e.Error()),
				},
			})
		}

		return err
	}

	return nil
}

func formatValidationErrors(err *openapierrors.CompositeError) []*types.HTTPValidationErrorDetail {
	res := make([]*types.HTTPValidationErrorDetail, 0, len(err.Errors))
	for _, e := range err.Errors {
		switch ee := e.(type) {
		case *openapierrors.Validation:
			res = append(res, &types.HTTPValidationErrorDetail{
				Key:   swag.String(ee.Name),
				In:    swag.String(ee.In),
				Error: swag.String(ee.Error()),
			})
		case *openapierrors.CompositeError:
			res = append(res, formatValidationErrors(ee)...)
		default:
			res = append(res, &types.HTTPValidationErrorDetail{
				Key:   swag.String("body"),
				In:    swag.String("body"),
				Error: swag.String(e.Error()),
			})
		}
	}

	return res
}
