package multitenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenancy-service/internal/model"
)

func TestCreateUserWithOrganization(t *testing.T) {
	db := seededDB(t)

	result := provisionUser(t, db, "alice@example.com", "Acme")

	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, model.GlobalRoleCustomer, result.User.GlobalRole)
	assert.Equal(t, "Acme", result.Organization.Name)
	assert.Equal(t, result.Organization.ID, result.User.ActiveOrganizationID)

	require.NotNil(t, result.Membership.UserID)
	assert.Equal(t, result.User.ID, *result.Membership.UserID)
	assert.Equal(t, result.Organization.ID, result.Membership.OrganizationID)
	assert.False(t, result.Membership.Pending())

	assert.Equal(t, []string{model.RoleOwner}, membershipRoleNames(t, db, result.Membership.ID))
}

func TestCreateUserWithOrganization_DuplicateEmailRollsBack(t *testing.T) {
	db := seededDB(t)

	provisionUser(t, db, "alice@example.com", "First Org")

	_, err := CreateUserWithOrganization(db, CreateUserWithOrganizationParams{
		User:             NewUser{Email: "alice@example.com", Password: "hashed"},
		OrganizationName: "Second Org",
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	// The second organization must not survive the failed transaction.
	assert.EqualValues(t, 1, countRows(t, db, &model.Organization{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.User{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.Membership{}))
}

func TestCreateUserWithOrganization_UnseededDatabaseRollsBack(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateUserWithOrganization(db, CreateUserWithOrganizationParams{
		User:             NewUser{Email: "alice@example.com", Password: "hashed"},
		OrganizationName: "Acme",
	})
	require.Error(t, err)

	var notSeeded *RoleNotSeededError
	require.ErrorAs(t, err, &notSeeded)
	assert.Equal(t, model.RoleOwner, notSeeded.Role)
	assert.Equal(t, "OWNER role not found. Please ensure the database is properly seeded.", err.Error())

	// Everything created before the role grant failed must be rolled back.
	assert.EqualValues(t, 0, countRows(t, db, &model.Organization{}))
	assert.EqualValues(t, 0, countRows(t, db, &model.User{}))
	assert.EqualValues(t, 0, countRows(t, db, &model.Membership{}))
}

func TestCreateUserWithOrganization_Validation(t *testing.T) {
	db := seededDB(t)

	tests := []struct {
		name   string
		params CreateUserWithOrganizationParams
		field  string
	}{
		{
			name: "missing email",
			params: CreateUserWithOrganizationParams{
				User:             NewUser{Password: "hashed"},
				OrganizationName: "Acme",
			},
			field: "Email",
		},
		{
			name: "malformed email",
			params: CreateUserWithOrganizationParams{
				User:             NewUser{Email: "not-an-email", Password: "hashed"},
				OrganizationName: "Acme",
			},
			field: "Email",
		},
		{
			name: "missing organization name",
			params: CreateUserWithOrganizationParams{
				User: NewUser{Email: "alice@example.com", Password: "hashed"},
			},
			field: "OrganizationName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateUserWithOrganization(db, tt.params)
			require.Error(t, err)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)

			// Nothing may be written when validation fails.
			assert.EqualValues(t, 0, countRows(t, db, &model.User{}))
		})
	}
}
