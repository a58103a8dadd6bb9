package friends

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

// Engine holds the transition rules. All state lives in the store; the
// engine keeps nothing between calls.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// IncomingRequest pairs a pending request with its resolved sender.
type IncomingRequest struct {
	models.FriendRequest
	From *models.User `json:"fromUser,omitempty"`
}

// SendRequest creates a pending request from one user to another.
//
// It fails with ErrInvalidTarget on self-reference, ErrNotFound when the
// target user does not exist and ErrConflict when the pair is already
// related: an existing friendship, or a request in either direction with any
// status. Declined requests are never reset, so a declined pair stays
// blocked.
func (e *Engine) SendRequest(ctx context.Context, from, to primitive.ObjectID) (*models.FriendRequest, error) {
	if from == to {
		return nil, ErrInvalidTarget
	}

	exists, err := e.store.UserExists(ctx, to)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	friends, err := e.store.FriendshipExists(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrConflict
	}

	prior, err := e.store.RequestBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return nil, ErrConflict
	}

	now := time.Now().Unix()
	req := &models.FriendRequest{
		ID:        primitive.NewObjectID(),
		From:      from,
		To:        to,
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.InsertRequest(ctx, req); err != nil {
		// A concurrent send for the same pair loses the race at the
		// unique index; the store reports that as ErrConflict.
		return nil, err
	}
	return req, nil
}

// AcceptRequest transitions a pending request to accepted and creates the
// friendship. Only the recipient may accept; requests that already resolved
// fail with ErrConflict.
func (e *Engine) AcceptRequest(ctx context.Context, requestID, actor primitive.ObjectID) (*models.Friendship, error) {
	req, err := e.store.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.To != actor {
		return nil, ErrForbidden
	}
	if req.Status != models.RequestPending {
		return nil, ErrConflict
	}
	return e.store.AcceptRequest(ctx, req)
}

// DeclineRequest transitions a pending request to declined. Same guards as
// AcceptRequest; no friendship is created.
func (e *Engine) DeclineRequest(ctx context.Context, requestID, actor primitive.ObjectID) error {
	req, err := e.store.RequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.To != actor {
		return ErrForbidden
	}
	if req.Status != models.RequestPending {
		return ErrConflict
	}
	return e.store.DeclineRequest(ctx, req.ID)
}

// IncomingRequests lists pending requests addressed to user, newest first,
// with each sender resolved for display.
func (e *Engine) IncomingRequests(ctx context.Context, user primitive.ObjectID) ([]IncomingRequest, error) {
	reqs, err := e.store.PendingTo(ctx, user)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		senderIDs = append(senderIDs, r.From)
	}
	senders, err := e.store.UsersByID(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.User, len(senders))
	for i := range senders {
		byID[senders[i].ID] = &senders[i]
	}

	out := make([]IncomingRequest, len(reqs))
	for i, r := range reqs {
		out[i] = IncomingRequest{FriendRequest: r, From: byID[r.From]}
	}
	return out, nil
}

// Friends resolves every friendship row touching user to the other side.
func (e *Engine) Friends(ctx context.Context, user primitive.ObjectID) ([]models.User, error) {
	rows, err := e.store.FriendshipsOf(ctx, user)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]primitive.ObjectID, 0, len(rows))
	for i := range rows {
		otherIDs = append(otherIDs, rows[i].Other(user))
	}
	others, err := e.store.UsersByID(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(others))
	for _, u := range others {
		byID[u.ID] = u
	}

	// Preserve the store's newest-first friendship order.
	out := make([]models.User, 0, len(rows))
	for _, id := range otherIDs {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// RemoveFriendship deletes the friendship for the unordered pair. A second
// call for the same pair fails with ErrNotFound rather than succeeding
// silently.
func (e *Engine) RemoveFriendship(ctx context.Context, user, other primitive.ObjectID) error {
	deleted, err := e.store.DeleteFriendship(ctx, user, other)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// FriendCount reports how many friendships touch user.
func (e *Engine) FriendCount(ctx context.Context, user primitive.ObjectID) (int64, error) {
	return e.store.CountFriendships(ctx, user)
}

// StatusBetween derives the viewer's relationship to subject. Precedence is
// fixed: self, then friendship, then pending request, then nothing — so
// stale overlapping rows resolve deterministically.
func (e *Engine) StatusBetween(ctx context.Context, viewer, subject primitive.ObjectID) (Status, error) {
	if viewer == subject {
		return StatusSelf, nil
	}

	friends, err := e.store.FriendshipExists(ctx, viewer, subject)
	if err != nil {
		return "", err
	}
	if friends {
		return StatusFriends, nil
	}

	pending, err := e.store.PendingBetween(ctx, viewer, subject)
	if err != nil {
		return "", err
	}
	if pending != nil {
		if pending.From == viewer {
			return StatusRequestSent, nil
		}
		return StatusRequestReceived, nil
	}

	return StatusNotFriends, nil
}
