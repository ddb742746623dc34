package cart

import "github.com/avorobev/storefront/internal/token"

// Session owns one browser session's state: the bearer token, the
// identity decoded from it once at login, and the cart. It is an
// explicitly owned object the composition root passes around, not a
// process-wide singleton.
type Session struct {
	rawToken string
	identity *token.Identity
	cart     *Cart
}

func NewSession() *Session {
	return &Session{cart: New()}
}

// Establish installs a freshly issued credential. When the new
// identity belongs to a different user than the previous one, the cart
// is cleared so an in-progress cart cannot leak between users sharing
// a device.
func (s *Session) Establish(rawToken string, ident token.Identity) {
	if s.identity != nil && s.identity.UserID != ident.UserID {
		s.cart.Clear()
	}
	s.rawToken = rawToken
	s.identity = &ident
}

// Reset drops the credential and empties the cart.
func (s *Session) Reset() {
	s.rawToken = ""
	s.identity = nil
	s.cart.Clear()
}

func (s *Session) Token() string {
	return s.rawToken
}

// Identity returns the decoded identity, or false when nobody is
// logged in.
func (s *Session) Identity() (token.Identity, bool) {
	if s.identity == nil {
		return token.Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) Cart() *Cart {
	return s.cart
}
