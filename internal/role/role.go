// Package role is the single place where role strings are compared.
// Stored roles and token claims are historically case-inconsistent
// ("admin" vs "ADMIN"), so every check goes through Normalize.
package role

import "strings"

type Role string

const (
	User  Role = "user"
	Admin Role = "admin"
)

// Normalize maps any casing of a known role name to its canonical value.
func Normalize(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(User):
		return User, true
	case string(Admin):
		return Admin, true
	}
	return "", false
}

// Is reports whether s names the same role as r, ignoring case.
func Is(s string, r Role) bool {
	got, ok := Normalize(s)
	return ok && got == r
}
