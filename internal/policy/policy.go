// Package policy implements role-based access decisions as a single
// declarative table keyed by (role, operation, resource kind). Route handlers
// and services consult this table instead of branching on roles inline.
package policy

import (
	"store-rating/internal/data/entity"

	"github.com/google/uuid"
)

type Operation string

const (
	OpRead  Operation = "read"
	OpWrite Operation = "write"
)

type Resource string

const (
	ResourceStore  Resource = "store"
	ResourceRating Resource = "rating"
	ResourceUser   Resource = "user"
)

// Scope qualifies an allow decision on listing operations: which rows the
// principal may see. Filtered listings omit rows silently; single-resource
// operations outside the scope fail closed with Forbidden.
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeOwn  Scope = "own"
	ScopeNone Scope = "none"
)

type Decision struct {
	Allow bool
	Scope Scope
}

type ruleKey struct {
	role     entity.UserRole
	op       Operation
	resource Resource
}

var deny = Decision{Allow: false, Scope: ScopeNone}

// rules is the whole authorization model. Anything absent from the table is
// denied.
var rules = map[ruleKey]Decision{
	// admin: all stores, store creation and owner assignment, aggregate-only
	// rating reads, full user CRUD.
	{entity.RoleAdmin, OpRead, ResourceStore}:  {Allow: true, Scope: ScopeAll},
	{entity.RoleAdmin, OpWrite, ResourceStore}: {Allow: true, Scope: ScopeAll},
	{entity.RoleAdmin, OpRead, ResourceRating}: {Allow: true, Scope: ScopeAll},
	{entity.RoleAdmin, OpRead, ResourceUser}:   {Allow: true, Scope: ScopeAll},
	{entity.RoleAdmin, OpWrite, ResourceUser}:  {Allow: true, Scope: ScopeAll},

	// user: browse all stores, rate them, manage own profile.
	{entity.RoleUser, OpRead, ResourceStore}:   {Allow: true, Scope: ScopeAll},
	{entity.RoleUser, OpRead, ResourceRating}:  {Allow: true, Scope: ScopeOwn},
	{entity.RoleUser, OpWrite, ResourceRating}: {Allow: true, Scope: ScopeOwn},
	{entity.RoleUser, OpRead, ResourceUser}:    {Allow: true, Scope: ScopeOwn},
	{entity.RoleUser, OpWrite, ResourceUser}:   {Allow: true, Scope: ScopeOwn},

	// store_owner: aggregate stats of owned stores, own profile.
	{entity.RoleStoreOwner, OpRead, ResourceStore}:  {Allow: true, Scope: ScopeOwn},
	{entity.RoleStoreOwner, OpRead, ResourceRating}: {Allow: true, Scope: ScopeOwn},
	{entity.RoleStoreOwner, OpRead, ResourceUser}:   {Allow: true, Scope: ScopeOwn},
	{entity.RoleStoreOwner, OpWrite, ResourceUser}:  {Allow: true, Scope: ScopeOwn},
}

// Evaluate returns the decision for one (role, operation, resource) cell.
func Evaluate(role entity.UserRole, op Operation, resource Resource) Decision {
	d, ok := rules[ruleKey{role, op, resource}]
	if !ok {
		return deny
	}
	return d
}

// CanReadStore reports whether the principal may read a single store,
// given the store's owner. Used for single-resource reads, which fail closed.
func CanReadStore(role entity.UserRole, principalID uuid.UUID, ownerID *uuid.UUID) bool {
	d := Evaluate(role, OpRead, ResourceStore)
	if !d.Allow {
		return false
	}
	if d.Scope == ScopeOwn {
		return ownerID != nil && *ownerID == principalID
	}
	return true
}
