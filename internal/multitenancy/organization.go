package multitenancy

import (
	"errors"

	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

// CreateOrganization inserts a new organization. Names are not unique;
// there is no uniqueness check here.
func CreateOrganization(db *gorm.DB, name string) (*model.Organization, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "organization name must not be empty"}
	}
	organization := model.Organization{Name: name}
	if err := db.Create(&organization).Error; err != nil {
		return nil, err
	}
	return &organization, nil
}

// ChangeActiveOrganization switches a user's active organization after
// verifying they hold a membership in it, returning the updated user. The
// check and the update run in one transaction so a concurrent membership
// removal cannot slip between them (subject to the database's isolation
// level; under read committed this is a documented residual race, not a
// guaranteed prevention).
func ChangeActiveOrganization(db *gorm.DB, userID, organizationID uint) (*model.User, error) {
	var user model.User
	err := db.Transaction(func(tx *gorm.DB) error {
		var membership model.Membership
		err := tx.Where("user_id = ? AND organization_id = ?", userID, organizationID).
			First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("active_organization_id", organizationID).Error; err != nil {
			return err
		}
		return tx.First(&user, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
