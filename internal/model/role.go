package model

// Well-known role names created by the seeder. OWNER must exist before any
// user can be provisioned.
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Role is a named bundle of permissions. Role definitions are global; their
// association to a membership is organization-contextual because the
// membership itself is organization-scoped.
type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:varchar(1000)"`
}

// RolePermission associates a permission with a role. A role may hold many
// permissions and a permission may belong to many roles.
type RolePermission struct {
	RoleID       uint `json:"role_id" gorm:"primaryKey;autoIncrement:false"`
	PermissionID uint `json:"permission_id" gorm:"primaryKey;autoIncrement:false"`
}
