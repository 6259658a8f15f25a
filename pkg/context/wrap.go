package context

import (
	"Ideabox/pkg/log"
	"Ideabox/pkg/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID    = "user_id"
	CtxRequestID = "request_id"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				c.JSON(http.StatusOK, response.Response{
					Code: be.Code,
					Msg:  be.Msg,
				})
				return
			}
			log.L.Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("request_id", c.GetString(CtxRequestID)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, response.Response{
				Code: 500,
				Msg:  "系统异常",
			})
		}
	}
}

func GetUserID(c *gin.Context) (uint64, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, errors.New("user_id 不存在")
	}

	uid, ok := v.(uint64)
	if !ok {
		return 0, errors.New("user_id 类型错误")
	}

	return uid, nil
}

// ActingAs 校验请求中声明的身份与 token 身份一致, 不一致直接拒绝
func ActingAs(c *gin.Context, claimed uint64) (uint64, error) {
	uid, err := GetUserID(c)
	if err != nil || uid == 0 {
		return 0, response.NewError(http.StatusUnauthorized, "未登录")
	}
	if claimed != 0 && claimed != uid {
		return 0, response.NewError(http.StatusForbidden, "身份不匹配, 不能代替其他成员操作")
	}
	return uid, nil
}
