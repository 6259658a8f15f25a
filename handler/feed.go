package handler

import (
	"Ideabox/config"
	"Ideabox/middleware"
	"Ideabox/pkg/context"
	"Ideabox/pkg/response"
	"Ideabox/service"
	"Ideabox/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Feed struct {
	Config    *config.Config
	Discovery service.IDiscoveryService
}

func (h *Feed) RegisterRouter(r gin.IRouter) {
	optional := middleware.OptionalAuth([]byte(h.Config.Jwt.Secret), h.Config.Jwt.AccessTTL())
	r.GET("/v1/feed/:kind", optional, context.Wrap(h.List))
}

// List 信息流: hot / new / top / trending / rising / for_you / discovery
func (h *Feed) List(c *gin.Context) error {
	var params types.FeedParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	params.Kind = c.Param("kind")
	// 观看者只取登录身份, 未登录为 0
	params.ViewerID, _ = context.GetUserID(c)

	items, err := h.Discovery.Feed(c.Request.Context(), params)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}
