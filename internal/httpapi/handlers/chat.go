package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/httpapi/middleware"
	"github.com/suPer8Hu/godchat/internal/log"
)

// History serves ?persona=, falling back to the ?god= name the browser
// client sends.
func (h *Handler) History(c *gin.Context) {
	persona := c.Query("persona")
	if persona == "" {
		persona = c.Query("god")
	}

	entries, err := h.Chat.History(c.Request.Context(), middleware.CurrentUser(c), persona)
	if err != nil {
		h.chatError(c, err, "failed to load history")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"history": entries})
}

type askReq struct {
	Message string `json:"message"`
	God     string `json:"god"`
}

func (h *Handler) Ask(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	reply, err := h.Chat.Ask(c.Request.Context(), middleware.CurrentUser(c), req.God, req.Message)
	if err != nil {
		h.chatError(c, err, "ask failed")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) chatError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		common.Fail(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrValidation):
		common.Fail(c, http.StatusBadRequest, "Empty message")
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
		common.Fail(c, http.StatusInternalServerError, "internal error")
	}
}
