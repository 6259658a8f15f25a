package handler

import (
	"Ideabox/config"
	"Ideabox/middleware"
	"Ideabox/pkg/context"
	"Ideabox/pkg/response"
	"Ideabox/pkg/utils"
	"Ideabox/service"
	"Ideabox/types"
	gocontext "context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Idea struct {
	Config      *config.Config
	IdeaService service.IIdeaService
	Discovery   service.IDiscoveryService
}

func (h *Idea) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret), h.Config.Jwt.AccessTTL())
	ideas := r.Group("/v1/ideas")
	ideas.POST("", authorize, context.Wrap(h.Submit))
	ideas.GET("/:id", context.Wrap(h.Get))
	ideas.PATCH("/:id", authorize, context.Wrap(h.Edit))
	ideas.POST("/:id/launch", authorize, context.Wrap(h.Launch))
	ideas.POST("/:id/close", authorize, context.Wrap(h.Close))
	ideas.POST("/:id/comments", authorize, context.Wrap(h.AddComment))
	ideas.GET("/:id/comments", context.Wrap(h.ListComments))
	ideas.GET("/:id/similar", context.Wrap(h.Similar))

	r.GET("/v1/share/:code", context.Wrap(h.GetByShareCode)) // 分享短码
}

func ideaID(c *gin.Context) (uint64, error) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		return 0, response.NewError(http.StatusBadRequest, "创意 ID 无效")
	}
	return id, nil
}

// Submit 提交创意, 请求体中的 author_id 必须是当前登录成员
func (h *Idea) Submit(c *gin.Context) error {
	var req types.SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.ActingAs(c, req.AuthorID)
	if err != nil {
		return err
	}

	id, err := h.IdeaService.Submit(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, types.SubmitIdeaResponse{
		ID:        id,
		ShareCode: utils.GenHashID(h.Config.App.HashSalt, id),
	})
	return nil
}

func (h *Idea) Get(c *gin.Context) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	detail, err := h.IdeaService.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *Idea) GetByShareCode(c *gin.Context) error {
	detail, err := h.IdeaService.GetByShareCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *Idea) Edit(c *gin.Context) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	var req types.EditIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.ActingAs(c, 0)
	if err != nil {
		return err
	}

	detail, err := h.IdeaService.Edit(c.Request.Context(), id, uid, &req)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *Idea) Launch(c *gin.Context) error {
	return h.transition(c, h.IdeaService.Launch)
}

func (h *Idea) Close(c *gin.Context) error {
	return h.transition(c, h.IdeaService.Close)
}

func (h *Idea) transition(c *gin.Context, fn func(ctx gocontext.Context, ideaID, actorID uint64) (*types.TransitionResult, error)) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	uid, err := context.ActingAs(c, 0)
	if err != nil {
		return err
	}
	res, err := fn(c.Request.Context(), id, uid)
	if err != nil {
		return err
	}
	response.Success(c, res)
	return nil
}

func (h *Idea) AddComment(c *gin.Context) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	var req types.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.ActingAs(c, req.AuthorID)
	if err != nil {
		return err
	}

	item, err := h.IdeaService.AddComment(c.Request.Context(), id, uid, req.Content)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

// ListComments 游标分页, cursor 为上一页最后一条评论 ID
func (h *Idea) ListComments(c *gin.Context) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	cursor, _ := strconv.ParseUint(c.DefaultQuery("cursor", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	res, err := h.IdeaService.ListComments(c.Request.Context(), id, cursor, limit)
	if err != nil {
		return err
	}
	response.Success(c, res)
	return nil
}

func (h *Idea) Similar(c *gin.Context) error {
	id, err := ideaID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.Discovery.Similar(c.Request.Context(), id, limit)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}
