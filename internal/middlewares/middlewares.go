package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MiddlewaresI interface {
	RequestLogger() gin.HandlerFunc
	Recovery() gin.HandlerFunc
}

type Middlewares struct {
	logger *zap.SugaredLogger
}

func NewMiddlewares(logger *zap.SugaredLogger) MiddlewaresI {
	return &Middlewares{
		logger: logger,
	}
}

func (middlewares *Middlewares) RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		middlewares.logger.Infow("request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func (middlewares *Middlewares) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		middlewares.logger.Errorw("panic recovered", "error", recovered)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal Server Error",
		})
	})
}
