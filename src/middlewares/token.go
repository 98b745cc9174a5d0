package middlewares

import (
	"apts/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware gates staff-only routes. Runs after AuthMiddleware.
func AdminMiddleware(ctx *gin.Context) {
	role := ctx.GetString("role")
	if role != string(types.ROLE_ADMIN) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed"})
		return
	}
}
