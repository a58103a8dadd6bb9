package friends

import (
	"bytes"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

// Store is the persistence surface the engine runs against. MongoStore is
// the production implementation; MemoryStore backs the tests.
//
// Point lookups (RequestByID) return ErrNotFound when the document is
// missing. Pair queries (RequestBetween, PendingBetween) return (nil, nil)
// when no matching document exists.
type Store interface {
	UserExists(ctx context.Context, id primitive.ObjectID) (bool, error)
	UsersByID(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)

	RequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	// RequestBetween matches either direction, any status.
	RequestBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error)
	// PendingBetween matches either direction, pending only.
	PendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error)
	PendingTo(ctx context.Context, user primitive.ObjectID) ([]models.FriendRequest, error)
	InsertRequest(ctx context.Context, req *models.FriendRequest) error

	// AcceptRequest transitions req to accepted and creates the friendship
	// as one logical unit.
	AcceptRequest(ctx context.Context, req *models.FriendRequest) (*models.Friendship, error)
	DeclineRequest(ctx context.Context, id primitive.ObjectID) error

	FriendshipExists(ctx context.Context, a, b primitive.ObjectID) (bool, error)
	FriendshipsOf(ctx context.Context, user primitive.ObjectID) ([]models.Friendship, error)
	// DeleteFriendship reports whether a row for the unordered pair existed.
	DeleteFriendship(ctx context.Context, a, b primitive.ObjectID) (bool, error)
	CountFriendships(ctx context.Context, user primitive.ObjectID) (int64, error)
}

// orderPair returns the pair in canonical storage order, smaller ObjectID
// first. Friendships are always written in this order, so the unordered pair
// is covered by a single compound unique index and a single-key lookup.
func orderPair(a, b primitive.ObjectID) (primitive.ObjectID, primitive.ObjectID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}
