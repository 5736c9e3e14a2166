package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// RequireRole lets the request through only when the authenticated identity has
// one of roles. It must run after Authenticate.
func RequireRole(contextManager model.ContextManager, roles ...model.Role) gin.HandlerFunc {
	required := make([]string, len(roles))
	for i, r := range roles {
		required[i] = string(r)
	}

	return func(c *gin.Context) {
		identity, ok := contextManager.GetIdentityFromContext(c.Request.Context())
		if !ok {
			response.Error(c, nil, apierror.NewErrUnauthenticated())
			return
		}
		if !identity.Role.In(roles...) {
			response.Error(c, nil, apierror.NewErrForbidden(required...))
			return
		}
		c.Next()
	}
}
