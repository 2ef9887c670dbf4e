package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foodgram/global"
	"foodgram/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventFavoriteAdded       = "favorite.added"
	EventFavoriteRemoved     = "favorite.removed"
	EventCartAdded           = "cart.added"
	EventCartRemoved         = "cart.removed"
	EventSubscriptionAdded   = "subscription.added"
	EventSubscriptionRemoved = "subscription.removed"
	EventRecipeCreated       = "recipe.created"
	EventRecipeDeleted       = "recipe.deleted"
)

// Event is a user action worth keeping in the activity trail.
type Event struct {
	Type         string    `json:"type"`
	UserID       uint      `json:"user_id"`
	RecipeID     uint      `json:"recipe_id,omitempty"`
	TargetUserID uint      `json:"target_user_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

// DirectPublisher writes events straight to the activity table.
type DirectPublisher struct{}

func (DirectPublisher) Publish(ctx context.Context, e Event) error {
	return RecordActivity(ctx, e)
}

// RabbitPublisher sends events to a durable queue; ConsumeEvents persists them.
type RabbitPublisher struct {
	ch    *amqp.Channel
	queue string
}

func NewRabbitPublisher(ch *amqp.Channel, queue string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, queue: queue}
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		Body:         body,
	})
}

var publisher EventPublisher = DirectPublisher{}

// SetEventPublisher swaps the publisher used by every service. Call it before serving.
func SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = DirectPublisher{}
	}
	publisher = p
}

// publish never fails the caller; the action already happened.
func publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := publisher.Publish(ctx, e); err != nil {
		EventsPublished.WithLabelValues(e.Type, "error").Inc()
		global.Logger.Warn("publish event failed",
			zap.String("type", e.Type),
			zap.Uint("user_id", e.UserID),
			zap.Error(err))
		return
	}
	EventsPublished.WithLabelValues(e.Type, "ok").Inc()
}

// ConsumeEvents stores events from queue as activity rows until ctx is done.
// Malformed messages are dropped, storage failures are requeued.
func ConsumeEvents(ctx context.Context, ch *amqp.Channel, queue string) error {
	deliveries, err := ch.Consume(queue, "foodgram-activity", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}
	global.Logger.Info("activity consumer started", zap.String("queue", queue))
	return consumeDeliveries(ctx, deliveries)
}

// consumeDeliveries stores each delivery until ctx is done or the channel closes.
func consumeDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("activity delivery channel closed")
			}
			handleDelivery(ctx, d)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery) {
	var e Event
	if err := json.Unmarshal(d.Body, &e); err != nil || e.Type == "" {
		global.Logger.Warn("dropping malformed activity event", zap.ByteString("body", d.Body))
		_ = d.Nack(false, false)
		return
	}
	if err := RecordActivity(ctx, e); err != nil {
		global.Logger.Error("store activity failed", zap.String("type", e.Type), zap.Error(err))
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func RecordActivity(ctx context.Context, e Event) error {
	a := models.Activity{
		UserID:       e.UserID,
		RecipeID:     e.RecipeID,
		TargetUserID: e.TargetUserID,
		Action:       e.Type,
	}
	if !e.OccurredAt.IsZero() {
		a.CreatedAt = e.OccurredAt
	}
	return global.Db.WithContext(ctx).Create(&a).Error
}

// ListActivity returns the latest activity of a user, newest first.
func ListActivity(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	var out []models.Activity
	err := global.Db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
