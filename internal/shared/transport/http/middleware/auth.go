package middleware

import (
	"net/http"
	"strings"

	"EntityFactory/internal/shared/security"
	"EntityFactory/internal/shared/transport"
	"EntityFactory/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// Auth 校验 Authorization: Bearer <token>，失败直接返回 401。
func Auth(issuer *security.Issuer, log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			reject(c, log, "missing bearer token")
			return
		}
		claims, err := issuer.Parse(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			reject(c, log, err.Error())
			return
		}
		log.WithContext(ctx).Debug("token accepted", zap.String("subject", claims.Subject))
		c.Next()
	}
}

func reject(c *gin.Context, log logx.Logger, reason string) {
	ctx := c.Request.Context()
	logx.ReportBizWithLoggerContext(ctx, log, logx.NewBizLog(transport.Action(ctx), "unauthorized", reason))
	transport.SetErrorReason(ctx, reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  transport.Unauthorized,
		"error": security.ErrTokenInvalid.CodeText(),
		"msg":   reason,
	})
}
