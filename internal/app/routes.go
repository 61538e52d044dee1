package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-topup/internal/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) RegisterRoutes(h *handlers.TopUpHandler) {
	topups := a.Router.Group("/api/v1/topups", h.Authenticate)
	topups.POST("/check", h.CheckTopUp)
	topups.POST("/book", h.BookTopUp)

	registerOps(a.Router)
}

func registerOps(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
