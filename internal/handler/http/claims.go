package http

import (
	"net/http"

	"github.com/crewops/ops-portal-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// userIDFromToken pulls the authenticated user id out of the verified JWT.
// Writes the error response itself; callers just return on !ok.
func userIDFromToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return "", false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return "", false
	}

	return userID, true
}
