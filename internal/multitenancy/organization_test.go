package multitenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenancy-service/internal/model"
)

func TestCreateOrganization(t *testing.T) {
	db := newTestDB(t)

	organization, err := CreateOrganization(db, "Acme")
	require.NoError(t, err)
	assert.NotZero(t, organization.ID)
	assert.Equal(t, "Acme", organization.Name)
}

func TestCreateOrganization_DuplicateNamesAllowed(t *testing.T) {
	db := newTestDB(t)

	first, err := CreateOrganization(db, "Acme")
	require.NoError(t, err)
	second, err := CreateOrganization(db, "Acme")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.EqualValues(t, 2, countRows(t, db, &model.Organization{}))
}

func TestCreateOrganization_EmptyName(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateOrganization(db, "")
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)
}

func TestChangeActiveOrganization(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "First Org")

	second, err := CreateOrganization(db, "Second Org")
	require.NoError(t, err)
	membership, err := CreateMembership(db, alice.User.ID, second.ID)
	require.NoError(t, err)
	require.NoError(t, AddRoleToMembership(db, membership.ID, model.RoleMember))

	user, err := ChangeActiveOrganization(db, alice.User.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, user.ActiveOrganizationID)

	// Switching back works the same way.
	user, err = ChangeActiveOrganization(db, alice.User.ID, alice.Organization.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Organization.ID, user.ActiveOrganizationID)
}

func TestChangeActiveOrganization_NotAMember(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Alice Org")
	bob := provisionUser(t, db, "bob@example.com", "Bob Org")

	_, err := ChangeActiveOrganization(db, alice.User.ID, bob.Organization.ID)
	require.ErrorIs(t, err, ErrNotAMember)

	// The active organization is untouched by the rejected switch.
	var user model.User
	require.NoError(t, db.First(&user, alice.User.ID).Error)
	assert.Equal(t, alice.Organization.ID, user.ActiveOrganizationID)
}
