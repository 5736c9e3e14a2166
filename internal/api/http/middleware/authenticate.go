package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// TokenAuthenticator verifies access tokens.
type TokenAuthenticator interface {
	Authenticate(token string) (model.Identity, error)
}

// Authenticate validates bearer tokens and injects the identity into the request context.
type Authenticate struct {
	tokens         TokenAuthenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenAuthenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid "Bearer <token>" Authorization header.
func (m *Authenticate) Handle(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		response.Error(c, m.logger, apierror.NewErrMissingAuthorizationToken())
		return
	}

	token, ok := bearerToken(header)
	if !ok {
		response.Error(c, m.logger, apierror.NewErrMalformedAuthorizationHeader())
		return
	}

	identity, err := m.tokens.Authenticate(token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"path", c.FullPath(),
			"error", err.Error())
		response.Error(c, m.logger, err)
		return
	}

	ctx := m.contextManager.SetIdentityToContext(c.Request.Context(), identity)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
