package multitenancy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tenancy-service/pkg/database"
)

// newTestDB opens a fresh in-memory database and migrates the schema. Each
// test gets its own database, named after the test so parallel tests do not
// share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seededDB is newTestDB plus the default roles and permissions.
func seededDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := newTestDB(t)
	require.NoError(t, Seed(db))
	return db
}

// provisionUser creates a user with their own organization through the
// canonical entry point.
func provisionUser(t *testing.T, db *gorm.DB, email, organizationName string) *CreateUserWithOrganizationResult {
	t.Helper()

	result, err := CreateUserWithOrganization(db, CreateUserWithOrganizationParams{
		User:             NewUser{Name: "Test User", Email: email, Password: "hashed"},
		OrganizationName: organizationName,
	})
	require.NoError(t, err)
	return result
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func membershipRoleNames(t *testing.T, db *gorm.DB, membershipID uint) []string {
	t.Helper()

	var names []string
	err := db.Table("membership_roles").
		Select("roles.name").
		Joins("INNER JOIN roles ON roles.id = membership_roles.role_id").
		Where("membership_roles.membership_id = ?", membershipID).
		Order("roles.name").
		Scan(&names).Error
	require.NoError(t, err)
	return names
}
