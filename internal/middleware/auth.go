package middleware

import (
	"net/http"
	"strings"

	"jobportal/internal/contextutils"
	"jobportal/internal/response"
	"jobportal/internal/services"
)

// RequireAuth verifies the bearer token and puts the caller's user id on the
// context. Requests without a valid token never reach the handler.
func RequireAuth(tokens services.TokenService, builder *response.Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				builder.WriteError(w, r, services.NewAuthenticationError("Authentication required"))
				return
			}

			claims, err := tokens.Verify(r.Context(), token)
			if err != nil {
				builder.WriteError(w, r, err)
				return
			}

			ctx := contextutils.WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
