package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/suPer8Hu/godchat/internal/users"
)

type fakeResolver struct {
	users map[string]*users.User
	err   error
}

func (f fakeResolver) CurrentUser(ctx context.Context, token string) (*users.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[token], nil
}

func newEngine(res UserResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Session(res, "sid"))
	r.GET("/open", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Email)
			return
		}
		c.String(http.StatusOK, "anon")
	})
	r.GET("/closed", AuthRequired(), func(c *gin.Context) { c.String(http.StatusOK, "in") })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSession(t *testing.T) {
	r := newEngine(fakeResolver{users: map[string]*users.User{"good": {ID: 7, Email: "a@x.com"}}})

	assert.Equal(t, "anon", do(r, "/open", "").Body.String())
	assert.Equal(t, "anon", do(r, "/open", "bad").Body.String())
	assert.Equal(t, "a@x.com", do(r, "/open", "good").Body.String())

	w := do(r, "/closed", "bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, do(r, "/closed", "good").Code)
}

func TestSession_StoreError(t *testing.T) {
	r := newEngine(fakeResolver{err: errors.New("redis down")})
	w := do(r, "/open", "any")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := newEngine(fakeResolver{})
	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}
