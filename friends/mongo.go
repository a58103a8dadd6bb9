package friends

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

// MongoStore implements Store over the users, friend_requests and
// friendships collections.
type MongoStore struct {
	client      *mongo.Client
	users       *mongo.Collection
	requests    *mongo.Collection
	friendships *mongo.Collection
}

func NewMongoStore(client *mongo.Client, users, requests, friendships *mongo.Collection) *MongoStore {
	return &MongoStore{
		client:      client,
		users:       users,
		requests:    requests,
		friendships: friendships,
	}
}

func (s *MongoStore) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := s.users.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) UsersByID(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) RequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := s.requests.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *MongoStore) RequestBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	return s.findRequest(ctx, bson.M{"$or": bson.A{
		bson.M{"from": a, "to": b},
		bson.M{"from": b, "to": a},
	}})
}

func (s *MongoStore) PendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	return s.findRequest(ctx, bson.M{
		"status": models.RequestPending,
		"$or": bson.A{
			bson.M{"from": a, "to": b},
			bson.M{"from": b, "to": a},
		},
	})
}

func (s *MongoStore) findRequest(ctx context.Context, filter bson.M) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := s.requests.FindOne(ctx, filter).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *MongoStore) PendingTo(ctx context.Context, user primitive.ObjectID) ([]models.FriendRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.requests.Find(ctx, bson.M{"to": user, "status": models.RequestPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reqs []models.FriendRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *MongoStore) InsertRequest(ctx context.Context, req *models.FriendRequest) error {
	_, err := s.requests.InsertOne(ctx, req)
	if mongo.IsDuplicateKeyError(err) {
		// Lost a race against a concurrent send for the same pair.
		return ErrConflict
	}
	return err
}

// AcceptRequest performs the two writes of the accept transition. When the
// deployment supports multi-document transactions (replica set or mongos)
// both writes commit atomically; on a standalone server they run
// sequentially, leaving a small window where the request reads accepted
// before the friendship is visible.
func (s *MongoStore) AcceptRequest(ctx context.Context, req *models.FriendRequest) (*models.Friendship, error) {
	u1, u2 := orderPair(req.From, req.To)
	friendship := &models.Friendship{
		ID:        primitive.NewObjectID(),
		User1:     u1,
		User2:     u2,
		CreatedAt: time.Now().Unix(),
	}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, s.acceptWrites(sc, req, friendship)
	})
	if err == nil {
		return friendship, nil
	}
	if !transactionsUnsupported(err) {
		return nil, err
	}

	log.Println("MongoDB transactions unavailable, accepting friend request without one")
	if err := s.acceptWrites(ctx, req, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

func (s *MongoStore) acceptWrites(ctx context.Context, req *models.FriendRequest, friendship *models.Friendship) error {
	_, err := s.requests.UpdateOne(ctx,
		bson.M{"_id": req.ID, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": models.RequestAccepted, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return err
	}

	_, err = s.friendships.InsertOne(ctx, friendship)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

// Standalone servers reject transactions with IllegalOperation (code 20).
func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 20
	}
	return false
}

func (s *MongoStore) DeclineRequest(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.requests.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": models.RequestDeclined, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (s *MongoStore) FriendshipExists(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	u1, u2 := orderPair(a, b)
	count, err := s.friendships.CountDocuments(ctx, bson.M{"user1": u1, "user2": u2})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) FriendshipsOf(ctx context.Context, user primitive.ObjectID) ([]models.Friendship, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.friendships.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"user1": user},
		bson.M{"user2": user},
	}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.Friendship
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *MongoStore) DeleteFriendship(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	u1, u2 := orderPair(a, b)
	result, err := s.friendships.DeleteOne(ctx, bson.M{"user1": u1, "user2": u2})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoStore) CountFriendships(ctx context.Context, user primitive.ObjectID) (int64, error) {
	return s.friendships.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"user1": user},
		bson.M{"user2": user},
	}})
}
