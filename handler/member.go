package handler

import (
	"Ideabox/config"
	"Ideabox/middleware"
	"Ideabox/pkg/context"
	"Ideabox/pkg/response"
	"Ideabox/pkg/utils"
	"Ideabox/service"
	"Ideabox/types"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Member struct {
	Config     *config.Config
	Reputation service.IReputationService
}

func (h *Member) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret), h.Config.Jwt.AccessTTL())
	members := r.Group("/v1/members")
	members.POST("/link", authorize, context.Wrap(h.Link))
	members.GET("/top", context.Wrap(h.Top))
	members.GET("/:id/reputation", context.Wrap(h.GetReputation))
}

// Link 关联身份, 建立声望账本, 重复调用无副作用
func (h *Member) Link(c *gin.Context) error {
	var req types.LinkMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.ActingAs(c, req.MemberID)
	if err != nil {
		return err
	}

	rep, err := h.Reputation.Link(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, rep)
	return nil
}

func (h *Member) GetReputation(c *gin.Context) error {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		return response.NewError(http.StatusBadRequest, "成员 ID 无效")
	}
	rep, err := h.Reputation.GetReputation(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, rep)
	return nil
}

func (h *Member) Top(c *gin.Context) error {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.Reputation.TopMembers(c.Request.Context(), limit)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}
