package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"markmycampus/internal/auth"
	"markmycampus/internal/session"
	"markmycampus/internal/transport/http/response"
)

const ContextPrincipalKey = "principal"

// TokenSource extracts a bearer token from a request, returning "" when it has none.
type TokenSource func(c *gin.Context) string

func HeaderToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(prefix):])
}

// SessionToken resolves the token stored behind the session cookie.
func SessionToken(store session.Store, cookieName string) TokenSource {
	return func(c *gin.Context) string {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			return ""
		}
		token, ok, err := store.Get(c.Request.Context(), id)
		if err != nil || !ok {
			return ""
		}
		return token
	}
}

// RequireUser accepts user tokens from the first source that yields one.
func RequireUser(tokens *auth.TokenService, sources ...TokenSource) gin.HandlerFunc {
	if len(sources) == 0 {
		sources = []TokenSource{HeaderToken}
	}
	return require(tokens, auth.RoleUser, sources)
}

// RequireAdmin only reads the Authorization header.
func RequireAdmin(tokens *auth.TokenService) gin.HandlerFunc {
	return require(tokens, auth.RoleAdmin, []TokenSource{HeaderToken})
}

func require(tokens *auth.TokenService, role auth.Role, sources []TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		for _, source := range sources {
			if raw = source(c); raw != "" {
				break
			}
		}

		principal, err := tokens.Verify(raw, role)
		if err != nil {
			authErr := &auth.AuthError{Reason: auth.ReasonInvalid}
			errors.As(err, &authErr)
			status := http.StatusUnauthorized
			if authErr.Reason == auth.ReasonForbidden {
				status = http.StatusForbidden
			}
			response.Abort(c, status, authErr.Message())
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return auth.FromContext(c.Request.Context())
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
