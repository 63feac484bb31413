// Package auth holds the connection user identity and the role check
// consumed by the package router.
package auth

// User is the identity attached to a connection after authentication.
// Roles come from the token's realm roles; the router only reads them.
type User struct {
	ID       string
	Username string
	Roles    map[string]struct{}
}

// NewUser builds a User from a role list.
func NewUser(id, username string, roles []string) *User {
	u := &User{ID: id, Username: username, Roles: make(map[string]struct{}, len(roles))}
	for _, r := range roles {
		u.Roles[r] = struct{}{}
	}
	return u
}

// HasRole reports whether the user holds a single role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	_, ok := u.Roles[role]
	return ok
}

// HasPermission reports whether the user holds every required role.
// An empty required set means the operation is public. Pure function,
// no I/O.
func HasPermission(user *User, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if user == nil {
		return false
	}
	for _, r := range required {
		if _, ok := user.Roles[r]; !ok {
			return false
		}
	}
	return true
}
