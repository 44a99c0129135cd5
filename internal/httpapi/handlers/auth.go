package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/godchat/internal/auth"
	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/httpapi/middleware"
	"github.com/suPer8Hu/godchat/internal/log"
)

const (
	msgMissingFields = "Email & password required."
	msgEmailTaken    = "Email already registered."
	msgBadLogin      = "Invalid credentials."
	msgServerError   = "Something went wrong, please try again."
)

func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", formPage{})
}

func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	sess, err := h.Auth.Register(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		page := formPage{Email: auth.NormalizeEmail(email)}
		switch {
		case errors.Is(err, common.ErrValidation):
			page.Error = msgMissingFields
			c.HTML(http.StatusBadRequest, "register.html", page)
		case errors.Is(err, common.ErrAlreadyExists):
			page.Error = msgEmailTaken
			c.HTML(http.StatusConflict, "register.html", page)
		default:
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("register failed")
			page.Error = msgServerError
			c.HTML(http.StatusInternalServerError, "register.html", page)
		}
		return
	}
	h.replaceSession(c, sess.Token)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", formPage{})
}

func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	sess, err := h.Auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		page := formPage{Email: auth.NormalizeEmail(email)}
		if errors.Is(err, common.ErrInvalidCredentials) {
			page.Error = msgBadLogin
			c.HTML(http.StatusUnauthorized, "login.html", page)
			return
		}
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("login failed")
		page.Error = msgServerError
		c.HTML(http.StatusInternalServerError, "login.html", page)
		return
	}
	h.replaceSession(c, sess.Token)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	h.dropIncomingSession(c)
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) Index(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "index.html", indexPage{
		Email:    u.Email,
		Persona:  h.DefaultPersona,
		Personas: Personas,
	})
}

// dropIncomingSession deletes the store entry behind the request cookie.
func (h *Handler) dropIncomingSession(c *gin.Context) {
	token, err := c.Cookie(h.Cookie.Name)
	if err != nil || token == "" {
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to delete session")
	}
}

// replaceSession ends any session the client already holds and installs token.
func (h *Handler) replaceSession(c *gin.Context, token string) {
	h.dropIncomingSession(c)
	h.setSessionCookie(c, token)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, token, int(h.Cookie.TTL.Seconds()), "/", "", h.Cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, "", -1, "/", "", h.Cookie.Secure, true)
}
