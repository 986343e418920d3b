package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/orghub/orghub/internal/auth/domain"
	obscontext "github.com/orghub/orghub/internal/observability/context"
	userdomain "github.com/orghub/orghub/internal/user/domain"
)

const contextUserKey = "current_user"

// AuthRequired verifies the bearer access token and stores the
// resolved user on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := authdomain.TokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		user, err := s.authSvc.VerifyAccess(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := obscontext.WithActorID(c.Request.Context(), user.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// SuperuserRequired gates a route to superuser accounts. It must run
// after AuthRequired.
func (s *Server) SuperuserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsSuperuser {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *userdomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*userdomain.User)
	if !ok {
		return nil
	}
	return user
}
