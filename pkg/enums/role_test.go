package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("seller")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, role)
	assert.True(t, role.IsValid())

	_, err = ParseRole("owner")
	assert.Error(t, err)
	assert.False(t, Role("").IsValid())
}
