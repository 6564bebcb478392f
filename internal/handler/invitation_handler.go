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

// InviteUser creates a pending invitation for an email address in the
// caller's organization.
func InviteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("invite")

	var req struct {
		Email          string `json:"email"`
		OrganizationID uint   `json:"organization_id"`
		RoleName       string `json:"role_name,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invitation request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.OrganizationID == 0 {
		log.Error("Invalid invitation data",
			zap.String("email", req.Email),
			zap.Uint("organization_id", req.OrganizationID))
		prometheus.RecordError("incomplete_invitation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and organization_id are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	membership, err := multitenancy.InviteUserToOrganization(database.GetDB(), req.Email, req.OrganizationID, req.RoleName)
	if err != nil {
		log.Error("Failed to invite user",
			zap.Error(err),
			zap.String("email", req.Email),
			zap.Uint("organization_id", req.OrganizationID))
		return coreError(c, err)
	}

	log.Info("User invited to organization",
		zap.String("email", req.Email),
		zap.Uint("organization_id", req.OrganizationID),
		zap.Uint("membership_id", membership.ID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Invitation created successfully",
		"membership": membership,
	})
}

// ListInvitations returns pending invitations for the authenticated user's
// email address.
func ListInvitations(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("list_invitations")

	email, ok := c.Get("email").(string)
	if !ok {
		log.Error("Failed to get email from context")
		prometheus.RecordError("unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	invitations, err := multitenancy.ListInvitations(database.GetDB(), email)
	if err != nil {
		log.Error("Failed to list invitations", zap.Error(err), zap.String("email", email))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve invitations"})
	}

	return c.JSON(http.StatusOK, invitations)
}

// AcceptInvitation activates a pending membership for the authenticated
// user and switches them into the newly joined organization.
func AcceptInvitation(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("accept")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordError("unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid membership ID", zap.Error(err))
		prometheus.RecordError("invalid_membership_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	membership, err := multitenancy.AcceptInvitation(database.GetDB(), uint(membershipID), userID)
	if err != nil {
		log.Warn("Invitation acceptance rejected",
			zap.Uint64("membership_id", membershipID),
			zap.Uint("user_id", userID),
			zap.Error(err))
		return coreError(c, err)
	}

	log.Info("Invitation accepted",
		zap.Uint("membership_id", membership.ID),
		zap.Uint("user_id", userID),
		zap.Uint("organization_id", membership.OrganizationID))

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Invitation accepted successfully",
		"membership": membership,
	})
}

// DeclineInvitation deletes a pending membership without activating it.
func DeclineInvitation(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("decline")

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid membership ID", zap.Error(err))
		prometheus.RecordError("invalid_membership_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := multitenancy.DeclineInvitation(database.GetDB(), uint(membershipID)); err != nil {
		log.Warn("Invitation decline rejected", zap.Uint64("membership_id", membershipID), zap.Error(err))
		return coreError(c, err)
	}

	log.Info("Invitation declined", zap.Uint64("membership_id", membershipID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Invitation declined"})
}
