package shared

import "net/http"

// Role is the coarse access level attached to a user account.
type Role string

const (
	// RoleStaff can manage the catalog and record movements.
	RoleStaff Role = "STAFF"
	// RoleOwner additionally runs demand forecasting.
	RoleOwner Role = "OWNER"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleOwner
}

// RequireAuth rejects requests without an authenticated session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose session does not carry the given role.
// The check runs before any data access by the wrapped handler.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if sess.Role() != role {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
