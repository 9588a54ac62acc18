package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

func timeoutContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}
