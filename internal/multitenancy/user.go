package multitenancy

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

var validate = validator.New()

// NewUser carries caller-supplied user fields for provisioning. GlobalRole
// is deliberately absent: this path can never mint a privileged global
// role.
type NewUser struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"-"`
}

// CreateUserWithOrganizationParams is the input of the canonical
// account-creation entry point.
type CreateUserWithOrganizationParams struct {
	User             NewUser `json:"user" validate:"required"`
	OrganizationName string  `json:"organization_name" validate:"required,min=1,max=255"`
}

// CreateUserWithOrganizationResult bundles the three rows created by a
// successful provisioning call.
type CreateUserWithOrganizationResult struct {
	User         model.User         `json:"user"`
	Organization model.Organization `json:"organization"`
	Membership   model.Membership   `json:"membership"`
}

// CreateUserWithOrganization is the primary way of creating a new user. A
// new user is always associated with a fresh organization and set up as its
// OWNER. Input is validated before any write; all four inserts run in one
// transaction, so a failure at any step (duplicate email, missing OWNER
// seed role) leaves no rows behind.
func CreateUserWithOrganization(db *gorm.DB, params CreateUserWithOrganizationParams) (*CreateUserWithOrganizationResult, error) {
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}

	var result CreateUserWithOrganizationResult
	err := db.Transaction(func(tx *gorm.DB) error {
		organization, err := CreateOrganization(tx, params.OrganizationName)
		if err != nil {
			return err
		}

		user := model.User{
			Name:                 params.User.Name,
			Email:                params.User.Email,
			Password:             params.User.Password,
			ActiveOrganizationID: organization.ID,
			GlobalRole:           model.GlobalRoleCustomer,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		membership, err := CreateMembership(tx, user.ID, organization.ID)
		if err != nil {
			return err
		}

		if err := AddRoleToMembership(tx, membership.ID, model.RoleOwner); err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				return &RoleNotSeededError{Role: model.RoleOwner}
			}
			return err
		}

		result = CreateUserWithOrganizationResult{
			User:         user,
			Organization: *organization,
			Membership:   *membership,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// asValidationError converts validator/v10 errors into the package's
// ValidationError, keeping the first violated field.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{
			Field:   verrs[0].Field(),
			Message: "failed on the " + verrs[0].Tag() + " rule",
		}
	}
	return &ValidationError{Message: err.Error()}
}
