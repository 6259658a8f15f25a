package service

import (
	"Ideabox/internal/ranking"
	"Ideabox/models"
	"Ideabox/pkg/utils"
	"Ideabox/types"
)

func toItem(idea *models.Idea) ranking.Item {
	return ranking.Item{
		ID:        idea.ID,
		AuthorID:  idea.AuthorID,
		Support:   idea.SupportVotes,
		Oppose:    idea.OpposeVotes,
		Comments:  idea.CommentCount,
		HotScore:  idea.HotScore,
		CreatedAt: idea.CreatedAt,
	}
}

func toItems(ideas []*models.Idea) []ranking.Item {
	out := make([]ranking.Item, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, toItem(idea))
	}
	return out
}

func toSummary(idea *models.Idea, salt string, score float64) *types.IdeaSummary {
	tags := []string(idea.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &types.IdeaSummary{
		ID:           idea.ID,
		ShareCode:    utils.GenHashID(salt, idea.ID),
		AuthorID:     idea.AuthorID,
		Title:        idea.Title,
		Tags:         tags,
		SupportVotes: idea.SupportVotes,
		OpposeVotes:  idea.OpposeVotes,
		CommentCount: idea.CommentCount,
		HotScore:     idea.HotScore,
		Status:       idea.Status,
		Score:        score,
		CreatedAt:    idea.CreatedAt,
	}
}

// toSummaries 按 scored 的顺序输出, byID 中缺失的跳过
func toSummaries(scored []ranking.Scored, byID map[uint64]*models.Idea, salt string) []*types.IdeaSummary {
	out := make([]*types.IdeaSummary, 0, len(scored))
	for _, s := range scored {
		idea, ok := byID[s.ID]
		if !ok {
			continue
		}
		out = append(out, toSummary(idea, salt, s.Score))
	}
	return out
}

func toComment(c *models.Comment) *types.CommentItem {
	return &types.CommentItem{
		ID:        c.ID,
		IdeaID:    c.IdeaID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
