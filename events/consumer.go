package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/pipeline"
)

// ConsumerConfig binds one pipeline stage to the notification topic.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Stage   string
	Handler pipeline.Handler
	Observe pipeline.ObserveFunc
	Log     *logrus.Logger
}

// Consumer runs one stage's consumer group session loop.
type Consumer struct {
	group     sarama.ConsumerGroup
	cfg       ConsumerConfig
	ready     chan struct{}
	readyOnce sync.Once
}

// NewConsumer creates the consumer group for one stage.
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Version = sarama.V3_6_0_0
	saramaCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaCfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: group, cfg: cfg, ready: make(chan struct{})}, nil
}

// Start consumes until ctx is canceled or Close is called. It returns once
// the group has joined and claimed partitions.
func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for {
			handler := &groupHandler{cfg: c.cfg, signalReady: c.signalReady}
			if err := c.group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) || errors.Is(err, context.Canceled) {
					return
				}
				c.cfg.Log.WithError(err).WithField("stage", c.cfg.Stage).Error("consumer session ended, rejoining")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-c.ready
	c.cfg.Log.WithFields(logrus.Fields{
		"stage": c.cfg.Stage,
		"group": c.cfg.GroupID,
		"topic": c.cfg.Topic,
	}).Info("storage-event consumer started")

	go func() {
		for err := range c.group.Errors() {
			c.cfg.Log.WithError(err).WithField("stage", c.cfg.Stage).Error("consumer error")
		}
	}()
	return nil
}

// Close leaves the group and releases its partitions.
func (c *Consumer) Close() error {
	return c.group.Close()
}

func (c *Consumer) signalReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

type groupHandler struct {
	cfg         ConsumerConfig
	signalReady func()
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.signalReady()
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if h.handle(session.Context(), message) {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message should be acknowledged. Unreadable
// payloads and routing skips are acknowledged; a stage failure is not, so the
// broker redelivers the message.
func (h *groupHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	log := h.cfg.Log.WithFields(logrus.Fields{
		"stage":     h.cfg.Stage,
		"run_id":    uuid.NewString(),
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	events, err := DecodeNotification(msg.Value)
	if err != nil {
		log.WithError(err).Warn("unreadable storage notification, acknowledging")
		return true
	}

	acked := true
	for _, ev := range events {
		start := time.Now()
		res, err := h.cfg.Handler.Handle(ctx, ev)
		if h.cfg.Observe != nil {
			h.cfg.Observe(h.cfg.Stage, res, err, time.Since(start))
		}
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{"bucket": ev.Bucket, "key": ev.Key}).
				Error("stage failed, leaving message unacknowledged for redelivery")
			acked = false
			continue
		}
		log.WithFields(logrus.Fields{"bucket": ev.Bucket, "key": ev.Key, "outcome": res.Outcome}).Info(res.Message)
	}
	return acked
}
