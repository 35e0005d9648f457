package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Role is the resolved capability class of an actor.
type Role string

const (
	// RoleAdmin operates unscoped, or pinned to one tenant during an
	// administrative visit.
	RoleAdmin Role = "admin"
	// RoleTenantScoped is permanently bound to exactly one tenant.
	RoleTenantScoped Role = "tenant"
	// RoleProfessional is bound to one tenant and one professional record.
	RoleProfessional Role = "professional"
)

// Scope is the resolved access scope passed to every operation. The zero
// tenant ID denotes the global tenant, visible only to admins.
type Scope struct {
	Role           Role         `json:"role"`
	TenantID       snowflake.ID `json:"tenant_id"`
	ProfessionalID snowflake.ID `json:"professional_id,omitempty"`
}

func (s Scope) IsZero() bool {
	return s.Role == ""
}

// Global reports whether the scope imposes no tenant filter.
func (s Scope) Global() bool {
	return s.Role == RoleAdmin && s.TenantID == 0
}

// CanAccess reports whether a record owned by tenantID is visible.
func (s Scope) CanAccess(tenantID snowflake.ID) bool {
	if s.IsZero() {
		return false
	}
	if s.Global() {
		return true
	}
	return s.TenantID == tenantID
}

// Apply adds the tenant filter to a query. Every repository read and
// write goes through this helper; a non-zero tenant scope always filters,
// a global admin scope never does.
func Apply(stmt *gorm.DB, sc Scope) *gorm.DB {
	if sc.TenantID != 0 {
		return stmt.Where("tenant_id = ?", sc.TenantID)
	}
	return stmt
}

// Identity is the opaque caller identity handed over by the
// authentication layer.
type Identity string

// RouteContext carries the tenant targeted by the visited route, when any.
type RouteContext struct {
	TenantID snowflake.ID
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
)
