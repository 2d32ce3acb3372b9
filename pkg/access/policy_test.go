package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grocerly/storefront-api/pkg/enums"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		capability Capability
		role       enums.Role
		allowed    bool
	}{
		{CartWrite, enums.RoleCustomer, true},
		{CartWrite, enums.RoleSeller, false},
		{CartRead, enums.RoleAdmin, false},
		{OrderCreate, enums.RoleCustomer, true},
		{OrderCreate, enums.RoleAdmin, false},
		{OrderRead, enums.RoleSeller, true},
		{AddressCreate, enums.RoleSeller, false},
		{AddressWrite, enums.RoleSeller, true},
		{DemandRead, enums.RoleSeller, true},
		{DemandRead, enums.RoleCustomer, true},
		{CategoryWrite, enums.RoleAdmin, true},
		{CategoryWrite, enums.RoleSeller, false},
		{ProductListAll, enums.RoleAdmin, true},
		{ProductListOwn, enums.RoleAdmin, false},
	}
	for _, tc := range cases {
		t.Run(tc.capability.String()+"/"+tc.role.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, p.Allows(tc.role, tc.capability))
		})
	}
}

func TestUnknownCapabilityDenies(t *testing.T) {
	p := DefaultPolicy()
	assert.False(t, p.Allows(enums.RoleAdmin, Capability{Resource: "billing", Action: ActionRead}))

	var nilPolicy *Policy
	assert.False(t, nilPolicy.Allows(enums.RoleAdmin, CartRead))
}

func TestRolesSorted(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, []enums.Role{enums.RoleAdmin, enums.RoleCustomer, enums.RoleSeller}, p.Roles(OrderRead))
	assert.Empty(t, p.Roles(Capability{Resource: "x", Action: "y"}))
}

func TestActorHelpers(t *testing.T) {
	assert.True(t, Actor{Role: enums.RoleCustomer}.IsCustomer())
	assert.True(t, Actor{Role: enums.RoleSeller}.IsSeller())
	assert.True(t, Actor{Role: enums.RoleAdmin}.IsAdmin())
	assert.False(t, Actor{Role: enums.RoleAdmin}.IsSeller())
}
