package multitenancy

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

// CreatePermission inserts an (action, entity, access) permission. The
// triple is unique; a duplicate surfaces as gorm.ErrDuplicatedKey. The
// default description is "{action} {access} {entity}".
func CreatePermission(db *gorm.DB, action Action, entity string, access Access) (*model.Permission, error) {
	switch action {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
	default:
		return nil, &ValidationError{Field: "action", Message: "unknown action " + strconv.Quote(string(action))}
	}
	switch access {
	case AccessOwn, AccessAny:
	default:
		return nil, &ValidationError{Field: "access", Message: "unknown access level " + strconv.Quote(string(access))}
	}
	if entity == "" {
		return nil, &ValidationError{Field: "entity", Message: "entity must not be empty"}
	}

	permission := model.Permission{
		Action:      string(action),
		Entity:      entity,
		Access:      string(access),
		Description: fmt.Sprintf("%s %s %s", action, access, entity),
	}
	if err := db.Create(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

// DeletePermission removes the permission with the given id.
func DeletePermission(db *gorm.DB, permissionID uint) error {
	var permission model.Permission
	err := db.First(&permission, permissionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: "Permission", Key: fmt.Sprintf("with id %d", permissionID)}
	}
	if err != nil {
		return err
	}
	return db.Delete(&model.Permission{}, permissionID).Error
}

// AddPermissionToRole associates an existing permission with the named
// role. An already-present association surfaces as gorm.ErrDuplicatedKey.
func AddPermissionToRole(db *gorm.DB, roleName string, permissionID uint) error {
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return err
	}
	return db.Create(&model.RolePermission{RoleID: role.ID, PermissionID: permissionID}).Error
}

// RemovePermissionFromRole detaches a permission from the named role.
// Removing an association that does not exist is a no-op.
func RemovePermissionFromRole(db *gorm.DB, roleName string, permissionID uint) error {
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return err
	}
	return db.Where("role_id = ? AND permission_id = ?", role.ID, permissionID).
		Delete(&model.RolePermission{}).Error
}

// RolePermissionInfo is one permission row enriched with the role name it
// was resolved through.
type RolePermissionInfo struct {
	RoleName     string `json:"role_name"`
	PermissionID uint   `json:"permission_id"`
	Action       string `json:"action"`
	Entity       string `json:"entity"`
	Access       string `json:"access"`
	Description  string `json:"description"`
}

// GetPermissionsByRoleName returns all permissions held by the named role.
// An unknown role yields an empty result, not an error.
func GetPermissionsByRoleName(db *gorm.DB, roleName string) ([]RolePermissionInfo, error) {
	var results []RolePermissionInfo
	err := db.Table("roles").
		Select("roles.name AS role_name, permissions.id AS permission_id, permissions.action, permissions.entity, permissions.access, permissions.description").
		Joins("INNER JOIN role_permissions ON role_permissions.role_id = roles.id").
		Joins("INNER JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.name = ?", roleName).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
