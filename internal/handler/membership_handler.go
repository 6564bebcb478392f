package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tenancy-service/internal/multitenancy"
	"tenancy-service/pkg/database"
	"tenancy-service/pkg/logger"
	"tenancy-service/prometheus"
)

// AddMembershipRole grants a role to a membership.
func AddMembershipRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMembershipOperation("add_role")

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid membership ID", zap.Error(err))
		prometheus.RecordError("invalid_membership_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	var req struct {
		RoleName string `json:"role_name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role grant request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.RoleName == "" {
		prometheus.RecordError("incomplete_role_grant")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := multitenancy.AddRoleToMembership(database.GetDB(), uint(membershipID), req.RoleName); err != nil {
		log.Error("Failed to add role to membership",
			zap.Error(err),
			zap.Uint64("membership_id", membershipID),
			zap.String("role_name", req.RoleName))
		return coreError(c, err)
	}

	log.Info("Role added to membership",
		zap.Uint64("membership_id", membershipID),
		zap.String("role_name", req.RoleName))

	return c.JSON(http.StatusCreated, echo.Map{"message": "Role added to membership"})
}

// RemoveMembershipRole revokes a role from a membership. Revoking a role
// the membership does not hold is a no-op.
func RemoveMembershipRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMembershipOperation("remove_role")

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid membership ID", zap.Error(err))
		prometheus.RecordError("invalid_membership_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}
	roleName := c.Param("role")

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := multitenancy.RemoveRoleFromMembership(database.GetDB(), uint(membershipID), roleName); err != nil {
		log.Error("Failed to remove role from membership",
			zap.Error(err),
			zap.Uint64("membership_id", membershipID),
			zap.String("role_name", roleName))
		return coreError(c, err)
	}

	log.Info("Role removed from membership",
		zap.Uint64("membership_id", membershipID),
		zap.String("role_name", roleName))

	return c.JSON(http.StatusOK, echo.Map{"message": "Role removed from membership"})
}

// RemoveMembership deletes a membership and all its role grants.
func RemoveMembership(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMembershipOperation("remove")

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid membership ID", zap.Error(err))
		prometheus.RecordError("invalid_membership_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := multitenancy.RemoveMembership(database.GetDB(), uint(membershipID)); err != nil {
		log.Error("Failed to remove membership", zap.Error(err), zap.Uint64("membership_id", membershipID))
		return coreError(c, err)
	}

	log.Info("Membership removed", zap.Uint64("membership_id", membershipID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Membership removed successfully"})
}
