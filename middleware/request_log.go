package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zachbush96/TipTracker/utils"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and logs it through zap,
// replacing gin's default console logger.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqID := ctx.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx.Header(requestIDHeader, reqID)

		start := time.Now()
		ctx.Next()

		if utils.Logger == nil {
			return
		}
		utils.Logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()),
		)
	}
}

// Recovery converts panics into 500 responses and logs the stack via zap.
func Recovery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if utils.Logger != nil {
					utils.Logger.Error("panic recovered",
						zap.Any("error", r),
						zap.String("path", ctx.Request.URL.Path),
						zap.Stack("stacktrace"),
					)
				}
				utils.Error(ctx, 500, 50000, "internal server error")
				ctx.Abort()
			}
		}()
		ctx.Next()
	}
}
