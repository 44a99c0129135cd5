package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/httpapi/middleware"
)

func (h *Handler) Status(c *gin.Context) {
	var email any
	if u := middleware.CurrentUser(c); u != nil {
		email = u.Email
	}
	common.OK(c, http.StatusOK, gin.H{"ok": true, "user": email})
}

func (h *Handler) Healthz(c *gin.Context) {
	common.OK(c, http.StatusOK, gin.H{"ok": true})
}
