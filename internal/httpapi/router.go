package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/httpapi/handlers"
	"github.com/suPer8Hu/godchat/internal/httpapi/middleware"
	"github.com/suPer8Hu/godchat/internal/log"
)

type Options struct {
	Logger      zerolog.Logger
	CORSOrigins []string
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(log.GinMiddleware(opts.Logger))
	r.Use(middleware.Recovery())

	if len(opts.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = opts.CORSOrigins
		cfg.AllowCredentials = true
		r.Use(cors.New(cfg))
	}

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.SetHTMLTemplate(handlers.Templates())
	r.StaticFS("/static", handlers.Static())

	r.GET("/healthz", h.Healthz)

	app := r.Group("/")
	app.Use(middleware.Session(h.Auth, h.Cookie.Name))

	app.GET("/register", h.RegisterPage)
	app.POST("/register", h.Register)
	app.GET("/login", h.LoginPage)
	app.POST("/login", h.Login)
	app.GET("/logout", h.Logout)
	app.GET("/", h.Index)
	app.GET("/status", h.Status)

	authGroup := app.Group("/")
	authGroup.Use(middleware.AuthRequired())
	authGroup.GET("/history", h.History)
	authGroup.POST("/ask", h.Ask)
	return r
}
