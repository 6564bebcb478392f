package multitenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePermission(t *testing.T) {
	db := newTestDB(t)

	permission, err := CreatePermission(db, ActionRead, "widget", AccessOwn)
	require.NoError(t, err)
	assert.NotZero(t, permission.ID)
	assert.Equal(t, "read", permission.Action)
	assert.Equal(t, "widget", permission.Entity)
	assert.Equal(t, "own", permission.Access)
	assert.Equal(t, "read own widget", permission.Description)
}

func TestCreatePermission_Validation(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name   string
		action Action
		entity string
		access Access
		field  string
	}{
		{"unknown action", Action("fly"), "widget", AccessOwn, "action"},
		{"unknown access", ActionRead, "widget", Access("all"), "access"},
		{"empty entity", ActionRead, "", AccessOwn, "entity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreatePermission(db, tt.action, tt.entity, tt.access)
			require.Error(t, err)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestCreatePermission_DuplicateTriple(t *testing.T) {
	db := newTestDB(t)

	_, err := CreatePermission(db, ActionRead, "widget", AccessOwn)
	require.NoError(t, err)

	_, err = CreatePermission(db, ActionRead, "widget", AccessOwn)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	// Varying any component of the triple is fine.
	_, err = CreatePermission(db, ActionRead, "widget", AccessAny)
	require.NoError(t, err)
	_, err = CreatePermission(db, ActionUpdate, "widget", AccessOwn)
	require.NoError(t, err)
	_, err = CreatePermission(db, ActionRead, "gadget", AccessOwn)
	require.NoError(t, err)
}

func TestDeletePermission_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := DeletePermission(db, 999999)
	require.Error(t, err)
	assert.Equal(t, "Permission with id 999999 not found", err.Error())
}

func TestAddPermissionToRole(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateRole(db, "AUDITOR", "")
	require.NoError(t, err)
	permission, err := CreatePermission(db, ActionRead, "widget", AccessAny)
	require.NoError(t, err)

	require.NoError(t, AddPermissionToRole(db, "AUDITOR", permission.ID))

	// Granting the same permission twice is rejected.
	err = AddPermissionToRole(db, "AUDITOR", permission.ID)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestAddPermissionToRole_UnknownRole(t *testing.T) {
	db := newTestDB(t)

	permission, err := CreatePermission(db, ActionRead, "widget", AccessAny)
	require.NoError(t, err)

	err = AddPermissionToRole(db, "WIZARD", permission.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRemovePermissionFromRole(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateRole(db, "AUDITOR", "")
	require.NoError(t, err)
	permission, err := CreatePermission(db, ActionRead, "widget", AccessAny)
	require.NoError(t, err)
	require.NoError(t, AddPermissionToRole(db, "AUDITOR", permission.ID))

	require.NoError(t, RemovePermissionFromRole(db, "AUDITOR", permission.ID))

	permissions, err := GetPermissionsByRoleName(db, "AUDITOR")
	require.NoError(t, err)
	assert.Empty(t, permissions)

	// Detaching an association that no longer exists is a no-op.
	require.NoError(t, RemovePermissionFromRole(db, "AUDITOR", permission.ID))
}

func TestGetPermissionsByRoleName(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateRole(db, "AUDITOR", "")
	require.NoError(t, err)
	readAny, err := CreatePermission(db, ActionRead, "widget", AccessAny)
	require.NoError(t, err)
	readOwn, err := CreatePermission(db, ActionRead, "gadget", AccessOwn)
	require.NoError(t, err)
	require.NoError(t, AddPermissionToRole(db, "AUDITOR", readAny.ID))
	require.NoError(t, AddPermissionToRole(db, "AUDITOR", readOwn.ID))

	permissions, err := GetPermissionsByRoleName(db, "AUDITOR")
	require.NoError(t, err)
	require.Len(t, permissions, 2)
	for _, p := range permissions {
		assert.Equal(t, "AUDITOR", p.RoleName)
		assert.Equal(t, "read", p.Action)
	}
}

func TestGetPermissionsByRoleName_UnknownRole(t *testing.T) {
	db := newTestDB(t)

	permissions, err := GetPermissionsByRoleName(db, "WIZARD")
	require.NoError(t, err)
	assert.Empty(t, permissions)
}
