package handlers

import (
	"time"

	"github.com/suPer8Hu/godchat/internal/auth"
	"github.com/suPer8Hu/godchat/internal/chat"
)

type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type Handler struct {
	Auth   *auth.Service
	Chat   *chat.Service
	Cookie CookieOptions
	// DefaultPersona preselects the home page picker.
	DefaultPersona string
}

func NewHandler(authSvc *auth.Service, chatSvc *chat.Service, cookie CookieOptions, defaultPersona string) *Handler {
	if cookie.Name == "" {
		cookie.Name = "godchat_session"
	}
	if cookie.TTL <= 0 {
		cookie.TTL = authSvc.TTL()
	}
	return &Handler{Auth: authSvc, Chat: chatSvc, Cookie: cookie, DefaultPersona: defaultPersona}
}
