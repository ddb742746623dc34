package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avorobev/storefront/internal/role"
	"github.com/avorobev/storefront/internal/token"
)

func TestSession_EstablishKeepsCartForSameUser(t *testing.T) {
	s := NewSession()
	s.Establish("token-1", token.Identity{UserID: 7, Role: role.User})
	s.Cart().Add(keyboard)

	// Re-login of the same user, e.g. after token expiry.
	s.Establish("token-2", token.Identity{UserID: 7, Role: role.User})

	assert.Len(t, s.Cart().Items(), 1)
	assert.Equal(t, "token-2", s.Token())
}

func TestSession_EstablishClearsCartOnIdentityChange(t *testing.T) {
	s := NewSession()
	s.Establish("token-1", token.Identity{UserID: 7, Role: role.User})
	s.Cart().Add(keyboard)
	s.Cart().Add(mouse)

	s.Establish("token-3", token.Identity{UserID: 8, Role: role.User})

	assert.Empty(t, s.Cart().Items())

	ident, ok := s.Identity()
	require.True(t, ok)
	assert.EqualValues(t, 8, ident.UserID)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession()
	s.Establish("token-1", token.Identity{UserID: 7, Role: role.Admin})
	s.Cart().Add(monitor)

	s.Reset()

	assert.Empty(t, s.Cart().Items())
	assert.Empty(t, s.Token())
	_, ok := s.Identity()
	assert.False(t, ok)
}

func TestSession_FirstEstablish(t *testing.T) {
	s := NewSession()
	_, ok := s.Identity()
	require.False(t, ok)

	s.Establish("token-1", token.Identity{UserID: 1, Role: role.User})
	ident, ok := s.Identity()
	require.True(t, ok)
	assert.EqualValues(t, 1, ident.UserID)
	assert.Equal(t, role.User, ident.Role)
}
