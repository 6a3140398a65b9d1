package auth

import (
	"encoding/json"
	"net/http"
)

// RequireUser is chi middleware that rejects requests without a valid user
// session. The authenticated username and role are placed on the request
// context.
func (m *SessionManager) RequireUser(next http.Handler) http.Handler {
	return m.require(next, RoleUser)
}

// RequireAdmin is chi middleware that rejects requests without a valid admin
// session.
func (m *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return m.require(next, RoleAdmin)
}

func (m *SessionManager) require(next http.Handler, role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.TokenFromRequest(r)
		if token == "" {
			unauthorized(w, "authentication required")
			return
		}

		claims, err := m.Validate(token)
		if err != nil {
			unauthorized(w, "invalid or expired session")
			return
		}
		// Admin sessions may use user surfaces, not the other way around.
		if role == RoleAdmin && claims.Role != RoleAdmin {
			unauthorized(w, "admin session required")
			return
		}

		ctx := WithUsername(r.Context(), claims.Subject)
		ctx = WithRole(ctx, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
		"code":    http.StatusUnauthorized,
	})
}
