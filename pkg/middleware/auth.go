package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/response"
)

// TokenCookie is the cookie login sets alongside the JSON token pair.
const TokenCookie = "token"

// bearer pulls the access token from the Authorization header, falling back
// to the login cookie. Browsers cannot set headers on a websocket upgrade, so
// the cookie path matters for /ws.
func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// Auth rejects requests without a valid access token and stores the token's
// claims on the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			response.Unauthorized(w, "")
			return
		}

		claims, err := auth.ValidateAs(token, auth.AccessToken)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid access token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearer(r); token != "" {
			if claims, err := auth.ValidateAs(token, auth.AccessToken); err == nil {
				r = r.WithContext(auth.WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func UserIDFromCtx(r *http.Request) (uint, bool) {
	c, ok := auth.ClaimsFromCtx(r.Context())
	if !ok {
		return 0, false
	}
	return c.UserID, true
}

func RoleFromCtx(r *http.Request) (string, bool) {
	c, ok := auth.ClaimsFromCtx(r.Context())
	if !ok {
		return "", false
	}
	return c.Role, true
}
