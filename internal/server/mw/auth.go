package mw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/resp"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
)

const CtxSession = "session"

// RequireAuth resolves the Authorization bearer token into a session.Context
// and stores it on the request.
func RequireAuth(resolver *session.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSessionTokenMissing):
				resp.Error(c, http.StatusUnauthorized, domain.ErrSessionTokenMissing.Error())
			case errors.Is(err, domain.ErrUnauthenticated):
				resp.Error(c, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			default:
				resp.Error(c, http.StatusInternalServerError, "internal error")
			}
			c.Abort()
			return
		}
		c.Set(CtxSession, sess)
		c.Next()
	}
}

// Session returns the resolved caller; RequireAuth must have run.
func Session(c *gin.Context) session.Context {
	return c.MustGet(CtxSession).(session.Context)
}
