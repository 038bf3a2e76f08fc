package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"absenceio/log"
	"absenceio/server/model"
	"absenceio/utils"
)

// BodyKey holds the raw request body once an auth middleware has read it.
const BodyKey = "body"

// RequireHawk rejects requests without a valid Hawk Authorization header,
// including stale timestamps. With an empty key only the header scheme is
// checked.
func RequireHawk(cred utils.HawkCredentials, skew time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.HasPrefix(ctx.GetHeader("Authorization"), "Hawk ") {
			unauthorized(ctx, errors.New("hawk authorization required"))
			return
		}
		if cred.Key == "" {
			ctx.Next()
			return
		}

		body, err := utils.AuthenticateHawk(cred, ctx.Request, skew)
		if err != nil {
			unauthorized(ctx, err)
			return
		}
		ctx.Set(BodyKey, body)
		ctx.Next()
	}
}

func unauthorized(ctx *gin.Context, err error) {
	log.Debugf("reject %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	ctx.Header("WWW-Authenticate", "Hawk")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, model.NormalRes{
		Code:    model.UNAUTHORIZED,
		Message: err.Error(),
	})
}
