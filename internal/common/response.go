package common

import "github.com/gin-gonic/gin"

func OK(c *gin.Context, httpStatus int, data any) {
	c.JSON(httpStatus, data)
}

// Fail writes the {"error": msg} body the browser client expects.
func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"error": msg})
}

// Abort is Fail for middleware: later handlers are skipped.
func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{"error": msg})
}
