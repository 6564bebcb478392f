package multitenancy

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

// CreateRole inserts a globally defined role. Role names are unique; a
// duplicate name surfaces as gorm.ErrDuplicatedKey. When description is
// empty a default one is synthesized.
func CreateRole(db *gorm.DB, name, description string) (*model.Role, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "role name must not be empty"}
	}
	if description == "" {
		description = "Role for " + name
	}

	role := model.Role{Name: name, Description: description}
	if err := db.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteRole removes the role with the given name.
func DeleteRole(db *gorm.DB, name string) error {
	role, err := findRoleByName(db, name)
	if err != nil {
		return err
	}
	return db.Delete(&model.Role{}, role.ID).Error
}

// GetRoleByName returns the role with the given name, or a NotFoundError.
func GetRoleByName(db *gorm.DB, name string) (*model.Role, error) {
	return findRoleByName(db, name)
}

func findRoleByName(db *gorm.DB, name string) (*model.Role, error) {
	var role model.Role
	err := db.Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "Role", Key: strconv.Quote(name)}
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
