package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/hapkiduki/catalog-go/internal/application/dto"
	"github.com/hapkiduki/catalog-go/internal/application/handler"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/interfaces/http/middleware"
)

// Error codes returned in dto.APIError.Code.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeCarrierNotFound = "CARRIER_NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
)

func meta(r *http.Request) *dto.ResponseMeta {
	return dto.NewResponseMeta(middleware.GetRequestID(r.Context()), time.Now())
}

// writeError maps an application error to an HTTP status and a dto.APIResponse envelope.
// Unknown errors are reported as INTERNAL_ERROR without leaking their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) int {
	status, code, message := http.StatusInternalServerError, CodeInternalError, "An unexpected error occurred"

	switch {
	case errors.Is(err, repository.ErrCarrierNotFound):
		status, code, message = http.StatusUnprocessableEntity, CodeCarrierNotFound, err.Error()
	case handler.IsValidationError(err):
		status, code, message = http.StatusUnprocessableEntity, CodeValidationError, err.Error()
	case repository.IsNotFoundError(err):
		status, code, message = http.StatusNotFound, CodeNotFound, err.Error()
	case repository.IsConflictError(err):
		status, code, message = http.StatusConflict, CodeConflict, err.Error()
	}

	resp := dto.NewErrorResponse[any](code, message).WithMeta(meta(r))
	var missing *repository.MissingCarriersError
	if errors.As(err, &missing) {
		resp.Error.Details = map[string]any{"missing_carrier_references": missing.References}
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
	return status
}

func writeValidationErrors(w http.ResponseWriter, r *http.Request, errs []dto.ValidationError) {
	render.Status(r, http.StatusUnprocessableEntity)
	render.JSON(w, r, dto.NewValidationErrorResponse[any](errs).WithMeta(meta(r)))
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, dto.NewErrorResponse[any](CodeBadRequest, message).WithMeta(meta(r)))
}
