package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tenancy-service/internal/multitenancy"
	"tenancy-service/pkg/database"
	"tenancy-service/pkg/logger"
	"tenancy-service/prometheus"
)

// CheckPermission reports whether the authenticated user holds a permission
// in an organization. When organization_id is omitted the user's active
// organization is used.
func CheckPermission(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordError("unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Permission     string `json:"permission"`
		OrganizationID uint   `json:"organization_id,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse permission check request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Permission == "" {
		prometheus.RecordError("incomplete_permission_check")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "permission is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var granted bool
	var err error
	if req.OrganizationID != 0 {
		granted, err = multitenancy.UserHasPermission(database.GetDB(), userID, req.OrganizationID, req.Permission)
	} else {
		granted, err = multitenancy.UserHasPermissionInActiveOrg(database.GetDB(), userID, req.Permission)
	}
	if err != nil {
		log.Error("Permission check failed",
			zap.Error(err),
			zap.Uint("user_id", userID),
			zap.String("permission", req.Permission))
		return coreError(c, err)
	}

	prometheus.RecordPermissionCheck("permission", granted)

	return c.JSON(http.StatusOK, echo.Map{
		"granted":    granted,
		"permission": req.Permission,
	})
}

// CheckRole reports whether the authenticated user holds a role in an
// organization. When organization_id is omitted the user's active
// organization is used.
func CheckRole(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordError("unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Role           string `json:"role"`
		OrganizationID uint   `json:"organization_id,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role check request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Role == "" {
		prometheus.RecordError("incomplete_role_check")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var granted bool
	var err error
	if req.OrganizationID != 0 {
		granted, err = multitenancy.UserHasRole(database.GetDB(), userID, req.OrganizationID, req.Role)
	} else {
		granted, err = multitenancy.UserHasRoleInActiveOrg(database.GetDB(), userID, req.Role)
	}
	if err != nil {
		log.Error("Role check failed",
			zap.Error(err),
			zap.Uint("user_id", userID),
			zap.String("role", req.Role))
		return coreError(c, err)
	}

	prometheus.RecordPermissionCheck("role", granted)

	return c.JSON(http.StatusOK, echo.Map{
		"granted": granted,
		"role":    req.Role,
	})
}
