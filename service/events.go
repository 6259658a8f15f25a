package service

import (
	"Ideabox/config"
	"Ideabox/pkg/log"
	"context"
	"encoding/json"
	"time"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 领域事件类型
const (
	EventIdeaSubmitted = "idea_submitted"
	EventVoteCast      = "vote_cast"
	EventVoteRemoved   = "vote_removed"
	EventCommentAdded  = "comment_added"
	EventIdeaValidated = "idea_validated"
	EventIdeaLaunched  = "idea_launched"
	EventIdeaClosed    = "idea_closed"
)

const defaultEventTopic = "ideabox_events"

// Event 事务提交后发布, 下游按 key 去重
type Event struct {
	Key     string         `json:"key"`
	Type    string         `json:"type"`
	IdeaID  uint64         `json:"idea_id"`
	ActorID uint64         `json:"actor_id"`
	Payload map[string]any `json:"payload,omitempty"`
	OccurAt time.Time      `json:"occur_at"`
}

func NewEvent(typ string, ideaID, actorID uint64, payload map[string]any) Event {
	return Event{
		Key:     uuid.NewString(),
		Type:    typ,
		IdeaID:  ideaID,
		ActorID: actorID,
		Payload: payload,
		OccurAt: time.Now(),
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event)
}

// NopPublisher 未接入消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// MQPublisher 同步发送到 RocketMQ, 失败只记录日志, 不影响主流程
type MQPublisher struct {
	producer rocketmq.Producer
	topic    string
}

func (p *MQPublisher) Publish(ctx context.Context, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		log.L.Error("marshal event failed", zap.String("type", e.Type), zap.Error(err))
		return
	}

	msg := primitive.NewMessage(p.topic, body)
	msg.WithKeys([]string{e.Key})
	msg.WithTag(e.Type)

	res, err := p.producer.SendSync(ctx, msg)
	if err != nil {
		log.L.Warn("publish event failed",
			zap.String("type", e.Type),
			zap.Uint64("idea_id", e.IdeaID),
			zap.Error(err),
		)
		return
	}
	log.L.Debug("event published", zap.String("type", e.Type), zap.String("msg_id", res.MsgID))
}

// NewEventPublisher producer 为空时退化为 NopPublisher
func NewEventPublisher(producer rocketmq.Producer, cfg *config.RocketMQConfig) EventPublisher {
	if producer == nil {
		return NopPublisher{}
	}
	topic := defaultEventTopic
	if cfg != nil && cfg.Topic != "" {
		topic = cfg.Topic
	}
	return &MQPublisher{producer: producer, topic: topic}
}
