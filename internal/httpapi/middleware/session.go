package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/log"
	"github.com/suPer8Hu/godchat/internal/users"
)

const UserKey = "current_user"

type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*users.User, error)
}

// Session resolves the session cookie on every request. Requests without a
// valid session pass through with no user set.
func Session(resolver UserResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		u, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("session lookup failed")
			common.Abort(c, http.StatusInternalServerError, "internal error")
			return
		}
		if u != nil {
			c.Set(UserKey, u)
			c.Set(log.FieldUserID, u.ID)
		}
		c.Next()
	}
}

// AuthRequired rejects requests that Session left without a user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			common.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *users.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*users.User)
	return u
}
