package multitenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenancy-service/internal/model"
)

func TestUserHasPermission_Owner(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	tests := []struct {
		permission string
		want       bool
	}{
		// OWNER holds read:user with both access levels.
		{"read:user", true},
		{"read:user:own", true},
		{"read:user:any", true},
		{"read:user:own,any", true},
		{"delete:organization:any", true},
		// No permission exists for create with own access.
		{"create:user:own", false},
		// Unseeded entity.
		{"read:widget", false},
	}

	for _, tt := range tests {
		t.Run(tt.permission, func(t *testing.T) {
			granted, err := UserHasPermission(db, alice.User.ID, alice.Organization.ID, tt.permission)
			require.NoError(t, err)
			assert.Equal(t, tt.want, granted)
		})
	}
}

func TestUserHasPermission_Member(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")
	bob := provisionUser(t, db, "bob@example.com", "Bob Org")

	invite, err := InviteUserToOrganization(db, "bob@example.com", alice.Organization.ID, "")
	require.NoError(t, err)
	_, err = AcceptInvitation(db, invite.ID, bob.User.ID)
	require.NoError(t, err)

	tests := []struct {
		permission string
		want       bool
	}{
		// MEMBER holds only own-scoped permissions.
		{"read:user:own", true},
		{"read:user:any", false},
		// Without an access part any grant matches.
		{"read:user", true},
		// Access values are OR-ed: the own grant satisfies the check.
		{"read:user:own,any", true},
		// MEMBER has no create permissions at all (create:own is never
		// seeded).
		{"create:user", false},
	}

	for _, tt := range tests {
		t.Run(tt.permission, func(t *testing.T) {
			granted, err := UserHasPermission(db, bob.User.ID, alice.Organization.ID, tt.permission)
			require.NoError(t, err)
			assert.Equal(t, tt.want, granted)
		})
	}
}

func TestUserHasPermission_GrantsAcrossRolesAreORed(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	// Two custom roles, each granting one access level of read:widget.
	readOwn, err := CreatePermission(db, ActionRead, "widget", AccessOwn)
	require.NoError(t, err)
	readAny, err := CreatePermission(db, ActionRead, "widget", AccessAny)
	require.NoError(t, err)

	_, err = CreateRole(db, "WIDGET_VIEWER", "")
	require.NoError(t, err)
	require.NoError(t, AddPermissionToRole(db, "WIDGET_VIEWER", readOwn.ID))
	_, err = CreateRole(db, "WIDGET_AUDITOR", "")
	require.NoError(t, err)
	require.NoError(t, AddPermissionToRole(db, "WIDGET_AUDITOR", readAny.ID))

	require.NoError(t, AddRoleToMembership(db, alice.Membership.ID, "WIDGET_VIEWER"))
	require.NoError(t, AddRoleToMembership(db, alice.Membership.ID, "WIDGET_AUDITOR"))

	for _, permission := range []string{"read:widget", "read:widget:own", "read:widget:any"} {
		granted, err := UserHasPermission(db, alice.User.ID, alice.Organization.ID, permission)
		require.NoError(t, err)
		assert.True(t, granted, permission)
	}
}

func TestUserHasPermission_AbsenceIsFalseNotError(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	// Nonexistent user.
	granted, err := UserHasPermission(db, 999999, alice.Organization.ID, "read:user")
	require.NoError(t, err)
	assert.False(t, granted)

	// Nonexistent organization.
	granted, err = UserHasPermission(db, alice.User.ID, 999999, "read:user")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestUserHasPermission_MalformedString(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	_, err := UserHasPermission(db, alice.User.ID, alice.Organization.ID, "user")
	require.Error(t, err)

	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUserHasRole(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	granted, err := UserHasRole(db, alice.User.ID, alice.Organization.ID, model.RoleOwner)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = UserHasRole(db, alice.User.ID, alice.Organization.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, granted)

	// Unknown role names are simply not held.
	granted, err = UserHasRole(db, alice.User.ID, alice.Organization.ID, "WIZARD")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestUserHasPermissionInActiveOrg(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")
	bob := provisionUser(t, db, "bob@example.com", "Bob Org")

	invite, err := InviteUserToOrganization(db, "bob@example.com", alice.Organization.ID, "")
	require.NoError(t, err)
	_, err = AcceptInvitation(db, invite.ID, bob.User.ID)
	require.NoError(t, err)

	// Acceptance switched bob's active organization to Acme, where he is
	// only a MEMBER.
	granted, err := UserHasPermissionInActiveOrg(db, bob.User.ID, "read:user:any")
	require.NoError(t, err)
	assert.False(t, granted)

	// Back in his own organization he is OWNER.
	_, err = ChangeActiveOrganization(db, bob.User.ID, bob.Organization.ID)
	require.NoError(t, err)

	granted, err = UserHasPermissionInActiveOrg(db, bob.User.ID, "read:user:any")
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestUserHasRoleInActiveOrg(t *testing.T) {
	db := seededDB(t)

	alice := provisionUser(t, db, "alice@example.com", "Acme")

	granted, err := UserHasRoleInActiveOrg(db, alice.User.ID, model.RoleOwner)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestActiveOrgChecks_UnknownUser(t *testing.T) {
	db := seededDB(t)

	_, err := UserHasPermissionInActiveOrg(db, 999999, "read:user")
	require.ErrorIs(t, err, ErrNoActiveOrganization)

	_, err = UserHasRoleInActiveOrg(db, 999999, model.RoleOwner)
	require.ErrorIs(t, err, ErrNoActiveOrganization)
}
