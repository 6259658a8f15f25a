package types

import (
	"Ideabox/internal/ranking"
	"time"
)

// 内容长度限制 (按字符计)
const (
	TitleMaxRunes   = 120
	BodyMaxRunes    = 10000
	CommentMaxRunes = 2000
	TagMaxCount     = 8
)

// SubmitIdeaRequest 提交创意
type SubmitIdeaRequest struct {
	AuthorID uint64   `json:"author_id"` // 声明的作者, 必须与登录身份一致
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
}

// EditIdeaRequest 编辑创意, 为空的字段不修改
type EditIdeaRequest struct {
	Title *string  `json:"title"`
	Body  *string  `json:"body"`
	Tags  []string `json:"tags"`
}

type SubmitIdeaResponse struct {
	ID        uint64 `json:"id"`
	ShareCode string `json:"share_code"`
}

// IdeaSummary 信息流中的创意
type IdeaSummary struct {
	ID             uint64    `json:"id"`
	ShareCode      string    `json:"share_code"`
	AuthorID       uint64    `json:"author_id"`
	AuthorTier     int       `json:"author_tier"`
	AuthorTierName string    `json:"author_tier_name"`
	Title          string    `json:"title"`
	Tags           []string  `json:"tags"`
	SupportVotes   int64     `json:"support_votes"`
	OpposeVotes    int64     `json:"oppose_votes"`
	CommentCount   int64     `json:"comment_count"`
	HotScore       float64   `json:"hot_score"`
	Status         string    `json:"status"`
	Score          float64   `json:"score"` // 当前信息流的排序分
	CreatedAt      time.Time `json:"created_at"`
}

// IdeaDetail 创意详情
type IdeaDetail struct {
	IdeaSummary
	Body        string           `json:"body"`
	ValidatedAt *time.Time       `json:"validated_at,omitempty"`
	LaunchedAt  *time.Time       `json:"launched_at,omitempty"`
	ClosedAt    *time.Time       `json:"closed_at,omitempty"`
	Validation  ranking.Progress `json:"validation"`
}

type AddCommentRequest struct {
	AuthorID uint64 `json:"author_id"`
	Content  string `json:"content"`
}

type CommentItem struct {
	ID        uint64    `json:"id"`
	IdeaID    uint64    `json:"idea_id"`
	AuthorID  uint64    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ListCommentsResponse 评论列表, 游标翻页
type ListCommentsResponse struct {
	Items      []*CommentItem `json:"items"`
	NextCursor uint64         `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

// TransitionResult 状态流转结果
type TransitionResult struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}
