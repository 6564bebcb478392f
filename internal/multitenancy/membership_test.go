package multitenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenancy-service/internal/model"
)

func TestCreateMembership_DuplicatePairRejected(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	_, err := CreateMembership(db, alice.User.ID, alice.Organization.ID)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestAddRoleToMembership(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	// Memberships can accumulate several distinct roles.
	require.NoError(t, AddRoleToMembership(db, alice.Membership.ID, model.RoleAdmin))
	assert.Equal(t, []string{model.RoleAdmin, model.RoleOwner},
		membershipRoleNames(t, db, alice.Membership.ID))
}

func TestAddRoleToMembership_DuplicateGrantRejected(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	err := AddRoleToMembership(db, alice.Membership.ID, model.RoleOwner)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestAddRoleToMembership_UnknownRole(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	err := AddRoleToMembership(db, alice.Membership.ID, "WIZARD")
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Role", notFound.Entity)
	assert.Equal(t, `Role "WIZARD" not found`, err.Error())
}

func TestRemoveRoleFromMembership(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")
	require.NoError(t, AddRoleToMembership(db, alice.Membership.ID, model.RoleAdmin))

	require.NoError(t, RemoveRoleFromMembership(db, alice.Membership.ID, model.RoleAdmin))
	assert.Equal(t, []string{model.RoleOwner}, membershipRoleNames(t, db, alice.Membership.ID))

	// Removing a role the membership does not hold is a no-op.
	require.NoError(t, RemoveRoleFromMembership(db, alice.Membership.ID, model.RoleAdmin))
	assert.Equal(t, []string{model.RoleOwner}, membershipRoleNames(t, db, alice.Membership.ID))
}

func TestRemoveMembership(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")
	bob := provisionUser(t, db, "bob@example.com", "Bob Org")

	require.NoError(t, RemoveMembership(db, alice.Membership.ID))

	// The membership and its role grants are gone; other memberships keep
	// theirs.
	assert.EqualValues(t, 1, countRows(t, db, &model.Membership{}))
	assert.Empty(t, membershipRoleNames(t, db, alice.Membership.ID))
	assert.Equal(t, []string{model.RoleOwner}, membershipRoleNames(t, db, bob.Membership.ID))
}

func TestRemoveMembership_NotFound(t *testing.T) {
	db := seededDB(t)

	err := RemoveMembership(db, 999999)
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Membership with id 999999 not found", err.Error())
}

func TestGetMembership(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	membership, err := GetMembership(db, alice.User.ID, alice.Organization.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Membership.ID, membership.ID)

	_, err = GetMembership(db, alice.User.ID, 999999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
