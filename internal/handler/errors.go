package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tenancy-service/internal/multitenancy"
	"tenancy-service/prometheus"
)

// coreError maps multitenancy package errors to HTTP responses. The core
// supplies structured failures (entity kind + identifier); this is the one
// place where they become status codes.
func coreError(c echo.Context, err error) error {
	var validation *multitenancy.ValidationError
	if errors.As(err, &validation) {
		prometheus.RecordError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validation.Error()})
	}

	if multitenancy.IsDuplicateKey(err) {
		prometheus.RecordError("duplicate_key")
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	if multitenancy.IsNotFound(err) {
		prometheus.RecordError("not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	if errors.Is(err, multitenancy.ErrNotAMember) {
		prometheus.RecordError("not_a_member")
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	}

	if errors.Is(err, multitenancy.ErrNoActiveOrganization) {
		prometheus.RecordError("no_active_organization")
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	var notSeeded *multitenancy.RoleNotSeededError
	if errors.As(err, &notSeeded) {
		prometheus.RecordError("role_not_seeded")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": notSeeded.Error()})
	}

	prometheus.RecordError("db_error")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
