package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FriendRequest statuses. A request transitions out of pending exactly once
// and is never deleted afterwards.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestDeclined = "declined"
)

type FriendRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From      primitive.ObjectID `bson:"from" json:"from"`
	To        primitive.ObjectID `bson:"to" json:"to"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64              `bson:"updatedAt" json:"updatedAt"`
}

// Friendship is a confirmed symmetric relationship. User1/User2 are stored in
// canonical order (smaller ObjectID first) so the compound unique index covers
// the unordered pair.
type Friendship struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User1     primitive.ObjectID `bson:"user1" json:"user1"`
	User2     primitive.ObjectID `bson:"user2" json:"user2"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

// Other returns the side of the friendship that is not id.
func (f *Friendship) Other(id primitive.ObjectID) primitive.ObjectID {
	if f.User1 == id {
		return f.User2
	}
	return f.User1
}
