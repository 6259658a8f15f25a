package handler

import (
	"Ideabox/config"
	"Ideabox/middleware"
	"Ideabox/pkg/context"
	"Ideabox/pkg/response"
	"Ideabox/service"
	"Ideabox/types"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Vote struct {
	Config      *config.Config
	VoteService service.IVoteService
}

func (h *Vote) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret), h.Config.Jwt.AccessTTL())
	votes := r.Group("/v1/ideas/:id/votes", authorize)
	votes.POST("", context.Wrap(h.Cast))     // 投票 / 改票
	votes.DELETE("", context.Wrap(h.Remove)) // 撤票
}

func (h *Vote) Cast(c *gin.Context) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	var req types.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.ActingAs(c, req.VoterID)
	if err != nil {
		return err
	}

	res, err := h.VoteService.Cast(c.Request.Context(), id, uid, req.VoteType, req.Reason)
	if err != nil {
		return err
	}
	response.Success(c, res)
	return nil
}

// Remove 请求体可省略, 默认撤销自己的票
func (h *Vote) Remove(c *gin.Context) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	var req types.RemoveVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.ActingAs(c, req.VoterID)
	if err != nil {
		return err
	}

	if err := h.VoteService.Remove(c.Request.Context(), id, uid); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
