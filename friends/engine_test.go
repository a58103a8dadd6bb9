package friends

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

func newTestEngine(t *testing.T, userCount int) (*Engine, []primitive.ObjectID) {
	t.Helper()
	store := NewMemoryStore()
	ids := make([]primitive.ObjectID, userCount)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
		store.AddUser(models.User{ID: ids[i], Username: "user" + string(rune('a'+i))})
	}
	return NewEngine(store), ids
}

func TestSendRequestSetsBothDirections(t *testing.T) {
	engine, users := newTestEngine(t, 2)
	a, b := users[0], users[1]
	ctx := context.Background()

	req, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, a, req.From)
	assert.Equal(t, b, req.To)

	status, err := engine.StatusBetween(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, StatusRequestSent, status)

	status, err = engine.StatusBetween(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, StatusRequestReceived, status)
}

func TestSendRequestToSelf(t *testing.T) {
	engine, users := newTestEngine(t, 1)

	_, err := engine.SendRequest(context.Background(), users[0], users[0])
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestSendRequestToMissingUser(t *testing.T) {
	engine, users := newTestEngine(t, 1)

	_, err := engine.SendRequest(context.Background(), users[0], primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendRequestDuplicateEitherDirection(t *testing.T) {
	engine, users := newTestEngine(t, 2)
	a, b := users[0], users[1]
	ctx := context.Background()

	_, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)

	_, err = engine.SendRequest(ctx, a, b)
	assert.ErrorIs(t, err, ErrConflict, "same ordered pair")

	_, err = engine.SendRequest(ctx, b, a)
	assert.ErrorIs(t, err, ErrConflict, "reversed pair")
}

func TestAcceptRequestFlow(t *testing.T) {
	engine, users := newTestEngine(t, 2)
	a, b := users[0], users[1]
	ctx := context.Background()

	req, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)

	friendship, err := engine.AcceptRequest(ctx, req.ID, b)
	require.NoError(t, err)
	assert.Equal(t, a, friendship.Other(b))
	assert.Equal(t, b, friendship.Other(a))

	stored, err := engine.store.RequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, stored.Status)

	for _, pair := range [][2]primitive.ObjectID{{a, b}, {b, a}} {
		status, err := engine.StatusBetween(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, StatusFriends, status)
	}

	list, err := engine.Friends(ctx, a)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b, list[0].ID)
}

func TestAcceptRequestByNonRecipient(t *testing.T) {
	engine, users := newTestEngine(t, 3)
	a, b, c := users[0], users[1], users[2]
	ctx := context.Background()

	req, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)

	_, err = engine.AcceptRequest(ctx, req.ID, c)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = engine.AcceptRequest(ctx, req.ID, a)
	assert.ErrorIs(t, err, ErrForbidden, "the sender cannot accept their own request")
}

func TestAcceptAlreadyResolvedRequest(t *testing.T) {
	engine, users := newTestEngine(t, 2)
	a, b := users[0], users[1]
	ctx := context.Background()

	req, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)

	_, err = engine.AcceptRequest(ctx, req.ID, b)
	require.NoError(t, err)

	_, err = engine.AcceptRequest(ctx, req.ID, b)
	assert.ErrorIs(t, err, ErrConflict)

	err = engine.DeclineRequest(ctx, req.ID, b)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAcceptMissingRequest(t *testing.T) {
	engine, users := newTestEngine(t, 1)

	_, err := engine.AcceptRequest(context.Background(), primitive.NewObjectID(), users[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeclineRequestFlow(t *testing.T) {
	engine, users := newTestEngine(t, 2)
	a, b := users[0], users[1]
	ctx := context.Background()

	req, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)

	err = engine.DeclineRequest(ctx, req.ID, b)
	require.NoError(t, err)

	status, err := engine.StatusBetween(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, StatusNotFriends, status)

	list, err := engine.Friends(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Declined requests are never reset, so the pair stays blocked.
	_, err = engine.SendRequest(ctx, a, b)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = engine.SendRequest(ctx, b, a)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSendRequestBetweenFriends(t *testing.T) {
	engine, users := newTestEngine(t, 2)
	a, b := users[0], users[1]
	ctx := context.Background()

	req, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)
	_, err = engine.AcceptRequest(ctx, req.ID, b)
	require.NoError(t, err)

	// The accepted request already blocks the pair; the friendship check
	// fires first either way.
	_, err = engine.SendRequest(ctx, b, a)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRemoveFriendship(t *testing.T) {
	engine, users := newTestEngine(t, 2)
	a, b := users[0], users[1]
	ctx := context.Background()

	req, err := engine.SendRequest(ctx, a, b)
	require.NoError(t, err)
	_, err = engine.AcceptRequest(ctx, req.ID, b)
	require.NoError(t, err)

	// Removal works regardless of which side initiates.
	require.NoError(t, engine.RemoveFriendship(ctx, b, a))

	status, err := engine.StatusBetween(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, StatusNotFriends, status)

	err = engine.RemoveFriendship(ctx, a, b)
	assert.ErrorIs(t, err, ErrNotFound, "second removal must fail, not succeed silently")
}

func TestStatusSelf(t *testing.T) {
	engine, users := newTestEngine(t, 1)

	status, err := engine.StatusBetween(context.Background(), users[0], users[0])
	require.NoError(t, err)
	assert.Equal(t, StatusSelf, status)
}

func TestStatusPrecedenceFriendshipOverStaleRequest(t *testing.T) {
	// A pending request left behind by stale data must not shadow an
	// existing friendship.
	store := NewMemoryStore()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	store.AddUser(models.User{ID: a})
	store.AddUser(models.User{ID: b})
	ctx := context.Background()

	require.NoError(t, store.InsertRequest(ctx, &models.FriendRequest{
		ID: primitive.NewObjectID(), From: a, To: b, Status: models.RequestPending,
	}))
	_, err := store.AcceptRequest(ctx, &models.FriendRequest{
		ID: primitive.NewObjectID(), From: b, To: a,
	})
	require.NoError(t, err)

	engine := NewEngine(store)
	status, err := engine.StatusBetween(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, StatusFriends, status)
}

func TestIncomingRequestsNewestFirst(t *testing.T) {
	engine, users := newTestEngine(t, 3)
	a, b, c := users[0], users[1], users[2]
	ctx := context.Background()

	first, err := engine.SendRequest(ctx, a, c)
	require.NoError(t, err)
	second, err := engine.SendRequest(ctx, b, c)
	require.NoError(t, err)

	incoming, err := engine.IncomingRequests(ctx, c)
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, second.ID, incoming[0].ID)
	assert.Equal(t, first.ID, incoming[1].ID)
	require.NotNil(t, incoming[0].From)
	assert.Equal(t, b, incoming[0].From.ID)

	// Resolved requests drop out of the incoming list.
	require.NoError(t, engine.DeclineRequest(ctx, second.ID, c))
	incoming, err = engine.IncomingRequests(ctx, c)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, first.ID, incoming[0].ID)
}

func TestFriendCount(t *testing.T) {
	engine, users := newTestEngine(t, 3)
	a, b, c := users[0], users[1], users[2]
	ctx := context.Background()

	for _, other := range []primitive.ObjectID{b, c} {
		req, err := engine.SendRequest(ctx, a, other)
		require.NoError(t, err)
		_, err = engine.AcceptRequest(ctx, req.ID, other)
		require.NoError(t, err)
	}

	count, err := engine.FriendCount(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = engine.FriendCount(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOrderPairCanonical(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	u1, u2 := orderPair(a, b)
	r1, r2 := orderPair(b, a)
	assert.Equal(t, u1, r1)
	assert.Equal(t, u2, r2)
}
