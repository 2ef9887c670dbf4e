package services

import (
	"context"
	"testing"

	"foodgram/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptions(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader")
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	author, err := Subscribe(ctx, reader.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", author.Username)

	_, err = Subscribe(ctx, reader.ID, alice.ID)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	_, err = Subscribe(ctx, reader.ID, reader.ID)
	assert.ErrorIs(t, err, ErrSelfSubscription)

	_, err = Subscribe(ctx, reader.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Subscribe(ctx, reader.ID, bob.ID)
	require.NoError(t, err)

	authors, count, err := ListSubscriptions(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, authors, 2)
	assert.Equal(t, "bob", authors[0].Username)

	subscribed, err := SubscribedTo(ctx, reader.ID, []uint{alice.ID, bob.ID, reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{alice.ID: true, bob.ID: true}, subscribed)

	require.NoError(t, Unsubscribe(ctx, reader.ID, alice.ID))
	assert.ErrorIs(t, Unsubscribe(ctx, reader.ID, alice.ID), ErrNotSubscribed)
	assert.ErrorIs(t, Unsubscribe(ctx, reader.ID, 9999), ErrNotFound)

	_, count, err = ListSubscriptions(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
