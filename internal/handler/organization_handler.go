package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tenancy-service/internal/model"
	"tenancy-service/internal/multitenancy"
	"tenancy-service/pkg/database"
	"tenancy-service/pkg/logger"
	"tenancy-service/prometheus"
)

// CreateOrganization creates an additional organization for an existing
// user and joins them as OWNER. Organization names are not unique, so this
// never conflicts on name.
func CreateOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("create")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordError("unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization creation request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	var organization *model.Organization
	var membership *model.Membership
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		organization, err = multitenancy.CreateOrganization(tx, req.Name)
		if err != nil {
			return err
		}
		membership, err = multitenancy.CreateMembership(tx, userID, organization.ID)
		if err != nil {
			return err
		}
		return multitenancy.AddRoleToMembership(tx, membership.ID, model.RoleOwner)
	})
	if err != nil {
		log.Error("Failed to create organization", zap.Error(err), zap.Uint("user_id", userID))
		return coreError(c, err)
	}

	log.Info("Organization created",
		zap.String("name", organization.Name),
		zap.Uint("id", organization.ID),
		zap.Uint("owner_user_id", userID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Organization created successfully",
		"organization": organization,
		"membership":   membership,
	})
}

// ListUserOrganizations returns all organizations the authenticated user
// holds an active membership in.
func ListUserOrganizations(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("list")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordError("unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	type OrganizationResponse struct {
		ID           uint      `json:"id"`
		Name         string    `json:"name"`
		MembershipID uint      `json:"membership_id"`
		JoinedAt     time.Time `json:"joined_at"`
	}

	var response []OrganizationResponse
	err := database.GetDB().Table("memberships").
		Select("organizations.id, organizations.name, memberships.id AS membership_id, memberships.created_at AS joined_at").
		Joins("INNER JOIN organizations ON organizations.id = memberships.organization_id").
		Where("memberships.user_id = ?", userID).
		Order("memberships.id").
		Scan(&response).Error
	if err != nil {
		log.Error("Failed to list organizations", zap.Error(err))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve organizations"})
	}

	return c.JSON(http.StatusOK, response)
}

// SwitchOrganization changes the user's active organization after a
// membership check and issues a fresh token scoped to it.
func SwitchOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("switch")

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		prometheus.RecordError("unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		OrganizationID uint `json:"organization_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization switch request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.OrganizationID == 0 {
		log.Error("Invalid organization ID", zap.Uint("organization_id", req.OrganizationID))
		prometheus.RecordError("invalid_organization_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	user, err := multitenancy.ChangeActiveOrganization(database.GetDB(), userID, req.OrganizationID)
	if err != nil {
		log.Warn("Organization switch rejected",
			zap.Uint("user_id", userID),
			zap.Uint("organization_id", req.OrganizationID),
			zap.Error(err))
		return coreError(c, err)
	}

	token, organization, roles, err := issueToken(user)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()

	log.Info("User switched organization",
		zap.Uint("user_id", userID),
		zap.Uint("organization_id", req.OrganizationID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"organization": map[string]interface{}{
			"id":    organization.ID,
			"name":  organization.Name,
			"roles": roles,
		},
	})
}
