// Package access maps {resource, action} capabilities to the roles allowed to
// use them. Routes declare the capability they need instead of branching on
// roles inside handlers.
package access

import (
	"sort"

	"github.com/google/uuid"

	"github.com/grocerly/storefront-api/pkg/enums"
)

type Resource string

type Action string

const (
	ResourceProduct  Resource = "product"
	ResourceCategory Resource = "category"
	ResourceCart     Resource = "cart"
	ResourceAddress  Resource = "address"
	ResourceOrder    Resource = "order"
	ResourceDemand   Resource = "demand"
)

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionWrite   Action = "write"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionListAll Action = "list_all"
	ActionListOwn Action = "list_own"
)

// Capability names one protected operation.
type Capability struct {
	Resource Resource
	Action   Action
}

func (c Capability) String() string {
	return string(c.Resource) + ":" + string(c.Action)
}

var (
	ProductListAll = Capability{ResourceProduct, ActionListAll}
	ProductListOwn = Capability{ResourceProduct, ActionListOwn}
	ProductCreate  = Capability{ResourceProduct, ActionCreate}
	ProductUpdate  = Capability{ResourceProduct, ActionUpdate}
	ProductDelete  = Capability{ResourceProduct, ActionDelete}
	CategoryWrite  = Capability{ResourceCategory, ActionWrite}
	CartRead       = Capability{ResourceCart, ActionRead}
	CartWrite      = Capability{ResourceCart, ActionWrite}
	AddressCreate  = Capability{ResourceAddress, ActionCreate}
	AddressRead    = Capability{ResourceAddress, ActionRead}
	AddressWrite   = Capability{ResourceAddress, ActionWrite}
	OrderCreate    = Capability{ResourceOrder, ActionCreate}
	OrderRead      = Capability{ResourceOrder, ActionRead}
	DemandRead     = Capability{ResourceDemand, ActionRead}
)

var everyone = []enums.Role{enums.RoleCustomer, enums.RoleSeller, enums.RoleAdmin}

// Policy is an immutable capability table.
type Policy struct {
	rules map[Capability]map[enums.Role]struct{}
}

// NewPolicy builds a policy from capability -> allowed roles.
func NewPolicy(grants map[Capability][]enums.Role) *Policy {
	rules := make(map[Capability]map[enums.Role]struct{}, len(grants))
	for capability, roles := range grants {
		set := make(map[enums.Role]struct{}, len(roles))
		for _, role := range roles {
			set[role] = struct{}{}
		}
		rules[capability] = set
	}
	return &Policy{rules: rules}
}

// DefaultPolicy is the storefront's role table.
func DefaultPolicy() *Policy {
	return NewPolicy(map[Capability][]enums.Role{
		ProductListAll: {enums.RoleAdmin},
		ProductListOwn: {enums.RoleSeller},
		ProductCreate:  {enums.RoleSeller, enums.RoleAdmin},
		ProductUpdate:  {enums.RoleSeller, enums.RoleAdmin},
		ProductDelete:  {enums.RoleSeller, enums.RoleAdmin},
		CategoryWrite:  {enums.RoleAdmin},
		CartRead:       {enums.RoleCustomer},
		CartWrite:      {enums.RoleCustomer},
		AddressCreate:  {enums.RoleCustomer},
		AddressRead:    everyone,
		AddressWrite:   everyone,
		OrderCreate:    {enums.RoleCustomer},
		OrderRead:      everyone,
		DemandRead:     everyone,
	})
}

// Allows reports whether role may use capability. Unknown capabilities deny.
func (p *Policy) Allows(role enums.Role, capability Capability) bool {
	if p == nil {
		return false
	}
	roles, ok := p.rules[capability]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}

// Roles lists the roles granted a capability, sorted for stable output.
func (p *Policy) Roles(capability Capability) []enums.Role {
	if p == nil {
		return nil
	}
	out := make([]enums.Role, 0, len(p.rules[capability]))
	for role := range p.rules[capability] {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Actor is the authenticated caller as seen by services.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

func (a Actor) IsCustomer() bool { return a.Role == enums.RoleCustomer }
func (a Actor) IsSeller() bool   { return a.Role == enums.RoleSeller }
func (a Actor) IsAdmin() bool    { return a.Role == enums.RoleAdmin }
