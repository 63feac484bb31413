package server

import (
	"net/http"
	"strings"

	"github.com/morezero/authors-service/pkg/auth"
)

// Identity headers injected by the auth gateway after token validation.
// Requests without X-User-Id are anonymous and can only reach public
// packages.
const (
	headerUserID   = "X-User-Id"
	headerUsername = "X-User-Name"
	headerRoles    = "X-User-Roles"
)

// userFromRequest builds the connection user from gateway headers, or nil
// for anonymous requests.
func userFromRequest(r *http.Request) *auth.User {
	id := r.Header.Get(headerUserID)
	if id == "" {
		return nil
	}
	var roles []string
	for _, role := range strings.Split(r.Header.Get(headerRoles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return auth.NewUser(id, r.Header.Get(headerUsername), roles)
}
