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

// CreateRole defines a new global role.
func CreateRole(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role creation request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	role, err := multitenancy.CreateRole(database.GetDB(), req.Name, req.Description)
	if err != nil {
		log.Error("Failed to create role", zap.Error(err), zap.String("name", req.Name))
		return coreError(c, err)
	}

	log.Info("Role created", zap.String("name", role.Name), zap.Uint("id", role.ID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Role created successfully",
		"role":    role,
	})
}

// DeleteRole removes a global role by name.
func DeleteRole(c echo.Context) error {
	log := logger.FromContext(c)
	name := c.Param("name")

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := multitenancy.DeleteRole(database.GetDB(), name); err != nil {
		log.Error("Failed to delete role", zap.Error(err), zap.String("name", name))
		return coreError(c, err)
	}

	log.Info("Role deleted", zap.String("name", name))

	return c.JSON(http.StatusOK, echo.Map{"message": "Role deleted successfully"})
}

// CreatePermission defines a new (action, entity, access) permission.
func CreatePermission(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Action string `json:"action"`
		Entity string `json:"entity"`
		Access string `json:"access"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse permission creation request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	permission, err := multitenancy.CreatePermission(database.GetDB(),
		multitenancy.Action(req.Action), req.Entity, multitenancy.Access(req.Access))
	if err != nil {
		log.Error("Failed to create permission",
			zap.Error(err),
			zap.String("action", req.Action),
			zap.String("entity", req.Entity),
			zap.String("access", req.Access))
		return coreError(c, err)
	}

	log.Info("Permission created",
		zap.Uint("id", permission.ID),
		zap.String("action", permission.Action),
		zap.String("entity", permission.Entity),
		zap.String("access", permission.Access))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Permission created successfully",
		"permission": permission,
	})
}

// DeletePermission removes a permission by id.
func DeletePermission(c echo.Context) error {
	log := logger.FromContext(c)

	permissionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid permission ID", zap.Error(err))
		prometheus.RecordError("invalid_permission_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid permission ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := multitenancy.DeletePermission(database.GetDB(), uint(permissionID)); err != nil {
		log.Error("Failed to delete permission", zap.Error(err), zap.Uint64("permission_id", permissionID))
		return coreError(c, err)
	}

	log.Info("Permission deleted", zap.Uint64("permission_id", permissionID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Permission deleted successfully"})
}

// AddRolePermission attaches an existing permission to a role.
func AddRolePermission(c echo.Context) error {
	log := logger.FromContext(c)
	roleName := c.Param("name")

	var req struct {
		PermissionID uint `json:"permission_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role permission request", zap.Error(err))
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PermissionID == 0 {
		prometheus.RecordError("invalid_permission_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "permission_id is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := multitenancy.AddPermissionToRole(database.GetDB(), roleName, req.PermissionID); err != nil {
		log.Error("Failed to add permission to role",
			zap.Error(err),
			zap.String("role_name", roleName),
			zap.Uint("permission_id", req.PermissionID))
		return coreError(c, err)
	}

	log.Info("Permission added to role",
		zap.String("role_name", roleName),
		zap.Uint("permission_id", req.PermissionID))

	return c.JSON(http.StatusCreated, echo.Map{"message": "Permission added to role"})
}

// RemoveRolePermission detaches a permission from a role. Detaching a
// permission the role does not hold is a no-op.
func RemoveRolePermission(c echo.Context) error {
	log := logger.FromContext(c)
	roleName := c.Param("name")

	permissionID, err := strconv.ParseUint(c.Param("permission_id"), 10, 32)
	if err != nil {
		log.Error("Invalid permission ID", zap.Error(err))
		prometheus.RecordError("invalid_permission_id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid permission ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := multitenancy.RemovePermissionFromRole(database.GetDB(), roleName, uint(permissionID)); err != nil {
		log.Error("Failed to remove permission from role",
			zap.Error(err),
			zap.String("role_name", roleName),
			zap.Uint64("permission_id", permissionID))
		return coreError(c, err)
	}

	log.Info("Permission removed from role",
		zap.String("role_name", roleName),
		zap.Uint64("permission_id", permissionID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Permission removed from role"})
}

// ListRolePermissions returns all permissions held by a role.
func ListRolePermissions(c echo.Context) error {
	log := logger.FromContext(c)
	roleName := c.Param("name")

	defer prometheus.TrackDBOperation("query")(time.Now())

	permissions, err := multitenancy.GetPermissionsByRoleName(database.GetDB(), roleName)
	if err != nil {
		log.Error("Failed to list role permissions", zap.Error(err), zap.String("role_name", roleName))
		prometheus.RecordError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve permissions"})
	}

	return c.JSON(http.StatusOK, permissions)
}
