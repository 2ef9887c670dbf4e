package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"foodgram/models"
	"foodgram/testutil"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestPublish_UsesConfiguredPublisher(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	rec := &recordingPublisher{}
	SetEventPublisher(rec)
	t.Cleanup(func() { SetEventPublisher(nil) })

	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")
	_, err := Subscribe(ctx, reader.ID, author.ID)
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	e := rec.events[0]
	assert.Equal(t, EventSubscriptionAdded, e.Type)
	assert.Equal(t, reader.ID, e.UserID)
	assert.Equal(t, author.ID, e.TargetUserID)
	assert.False(t, e.OccurredAt.IsZero())

	// the publisher owns persistence, nothing was written directly
	acts, err := ListActivity(ctx, reader.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestPublish_FailureDoesNotFailAction(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	SetEventPublisher(&recordingPublisher{err: errors.New("broker down")})
	t.Cleanup(func() { SetEventPublisher(nil) })

	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")
	_, err := Subscribe(ctx, reader.ID, author.ID)
	assert.NoError(t, err)
}

func TestRecordAndListActivity(t *testing.T) {
	testutil.SetupDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, RecordActivity(ctx, Event{Type: EventCartAdded, UserID: 7, RecipeID: 1, OccurredAt: base}))
	require.NoError(t, RecordActivity(ctx, Event{Type: EventCartRemoved, UserID: 7, RecipeID: 1, OccurredAt: base.Add(time.Minute)}))
	require.NoError(t, RecordActivity(ctx, Event{Type: EventCartAdded, UserID: 8, RecipeID: 1, OccurredAt: base}))

	acts, err := ListActivity(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, EventCartRemoved, acts[0].Action)
}

// ackRecorder records how a delivery was settled.
type ackRecorder struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error { return a.Nack(0, false, requeue) }

func delivery(t *testing.T, body []byte) (amqp.Delivery, *ackRecorder) {
	t.Helper()
	ack := &ackRecorder{}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}, ack
}

func TestHandleDelivery(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "cook")

	t.Run("malformed body is dropped", func(t *testing.T) {
		for _, body := range []string{"{not json", `{"user_id": 1}`} {
			d, ack := delivery(t, []byte(body))
			handleDelivery(ctx, d)
			assert.Equal(t, 0, ack.acked, body)
			assert.Equal(t, 1, ack.nacked, body)
			assert.False(t, ack.requeue, body)
		}
	})

	t.Run("valid event is stored and acked", func(t *testing.T) {
		body, err := json.Marshal(Event{Type: EventFavoriteAdded, UserID: user.ID, RecipeID: 7, OccurredAt: time.Now()})
		require.NoError(t, err)
		d, ack := delivery(t, body)
		handleDelivery(ctx, d)
		assert.Equal(t, 1, ack.acked)
		assert.Equal(t, 0, ack.nacked)

		var rows []models.Activity
		require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, EventFavoriteAdded, rows[0].Action)
	})

	t.Run("store failure is requeued", func(t *testing.T) {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		body, err := json.Marshal(Event{Type: EventCartAdded, UserID: user.ID, RecipeID: 7})
		require.NoError(t, err)
		d, ack := delivery(t, body)
		handleDelivery(ctx, d)
		assert.Equal(t, 0, ack.acked)
		assert.Equal(t, 1, ack.nacked)
		assert.True(t, ack.requeue)
	})
}

func TestConsumeDeliveries(t *testing.T) {
	db := testutil.SetupDB(t)
	user := testutil.CreateUser(t, db, "cook")

	deliveries := make(chan amqp.Delivery, 2)
	body, err := json.Marshal(Event{Type: EventSubscriptionAdded, UserID: user.ID, TargetUserID: 3})
	require.NoError(t, err)
	d, ack := delivery(t, body)
	deliveries <- d
	close(deliveries)

	err = consumeDeliveries(context.Background(), deliveries)
	assert.Error(t, err)
	assert.Equal(t, 1, ack.acked)

	var n int64
	require.NoError(t, db.Model(&models.Activity{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, consumeDeliveries(ctx, make(chan amqp.Delivery)))
}
