// Package multitenancy implements the organization/user/membership data
// model and the transactional operations over it: role and permission
// registry, membership management, user provisioning, the invitation
// workflow and read-only permission checks.
//
// Every function takes the *gorm.DB handle explicitly as its first
// parameter. Callers may pass either a root handle or a transaction handle;
// composite operations open their own transaction via db.Transaction, which
// nests as a savepoint when the caller is already inside one.
package multitenancy
