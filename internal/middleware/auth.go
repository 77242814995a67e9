package middleware

import (
	"net/http"
	"strings"

	"koalgroup/internal/apierror"
	"koalgroup/internal/policy"
	"koalgroup/internal/token"

	"github.com/gin-gonic/gin"
)

const CallerKey = "caller"

// JWTAuth validates the Bearer access token on every protected route and
// stores the resulting policy.Caller in the context.
func JWTAuth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.MsgAuthRequired))
			return
		}

		claims, err := issuer.Parse(strings.TrimPrefix(header, "Bearer "), token.TypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.MsgInvalidToken))
			return
		}
		caller, err := claims.Caller()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.MsgInvalidToken))
			return
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// GetCaller returns the identity stored by JWTAuth.
func GetCaller(c *gin.Context) (policy.Caller, bool) {
	v, ok := c.Get(CallerKey)
	if !ok {
		return policy.Caller{}, false
	}
	caller, ok := v.(policy.Caller)
	return caller, ok
}
