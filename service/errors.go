package service

import (
	"Ideabox/pkg/response"
	"net/http"
)

// 参数校验
var (
	ErrTitleEmpty       = response.NewError(http.StatusBadRequest, "标题不能为空")
	ErrTitleTooLong     = response.NewError(http.StatusBadRequest, "标题过长")
	ErrBodyTooLong      = response.NewError(http.StatusBadRequest, "正文过长")
	ErrTooManyTags      = response.NewError(http.StatusBadRequest, "标签过多")
	ErrCommentEmpty     = response.NewError(http.StatusBadRequest, "评论不能为空")
	ErrCommentTooLong   = response.NewError(http.StatusBadRequest, "评论过长")
	ErrInvalidVoteType  = response.NewError(http.StatusBadRequest, "投票类型只能是 support 或 oppose")
	ErrInvalidFeedKind  = response.NewError(http.StatusBadRequest, "不支持的信息流类型")
	ErrViewerRequired   = response.NewError(http.StatusUnauthorized, "个性化推荐需要登录")
	ErrInvalidMemberID  = response.NewError(http.StatusBadRequest, "成员 ID 无效")
	ErrNothingToEdit    = response.NewError(http.StatusBadRequest, "没有需要修改的内容")
	ErrInvalidShareCode = response.NewError(http.StatusBadRequest, "分享码无效")
)

// 权限
var (
	ErrNotAuthor        = response.NewError(http.StatusForbidden, "只有作者可以执行该操作")
	ErrSelfVote         = response.NewError(http.StatusForbidden, "不能给自己的创意投票")
	ErrInsufficientTier = response.NewError(http.StatusForbidden, "声望等级不足, 暂不能投票")
)

// 冲突
var (
	ErrIdeaClosed         = response.NewError(http.StatusConflict, "创意已关闭, 不再接受投票和修改")
	ErrDuplicateDirection = response.NewError(http.StatusConflict, "已经投过相同方向的票")
	ErrInvalidTransition  = response.NewError(http.StatusConflict, "当前状态不允许该操作")
	ErrWriteConflict      = response.NewError(http.StatusConflict, "创意正在被频繁更新, 请稍后重试")
)

// 不存在
var (
	ErrIdeaNotFound   = response.NewError(http.StatusNotFound, "创意不存在")
	ErrVoteNotFound   = response.NewError(http.StatusNotFound, "尚未投票")
	ErrLedgerNotFound = response.NewError(http.StatusNotFound, "成员尚未建立声望账本")
)
