package friends

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

// MemoryStore is an in-memory Store used by tests. It mirrors the MongoDB
// uniqueness guarantees: one request per ordered pair, one friendship per
// canonical pair.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[primitive.ObjectID]models.User
	requests    []*models.FriendRequest
	friendships []*models.Friendship
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[primitive.ObjectID]models.User)}
}

// AddUser seeds a user record.
func (s *MemoryStore) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *MemoryStore) UserExists(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *MemoryStore) UsersByID(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryStore) RequestByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) RequestBetween(_ context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if (r.From == a && r.To == b) || (r.From == b && r.To == a) {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) PendingBetween(_ context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.Status != models.RequestPending {
			continue
		}
		if (r.From == a && r.To == b) || (r.From == b && r.To == a) {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) PendingTo(_ context.Context, user primitive.ObjectID) ([]models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.FriendRequest
	// Newest first.
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if r.To == user && r.Status == models.RequestPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertRequest(_ context.Context, req *models.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.From == req.From && r.To == req.To {
			return ErrConflict
		}
	}
	copied := *req
	s.requests = append(s.requests, &copied)
	return nil
}

func (s *MemoryStore) AcceptRequest(_ context.Context, req *models.FriendRequest) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.ID == req.ID {
			r.Status = models.RequestAccepted
		}
	}
	u1, u2 := orderPair(req.From, req.To)
	friendship := &models.Friendship{
		ID:    primitive.NewObjectID(),
		User1: u1,
		User2: u2,
	}
	s.friendships = append(s.friendships, friendship)
	copied := *friendship
	return &copied, nil
}

func (s *MemoryStore) DeclineRequest(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.ID == id {
			if r.Status != models.RequestPending {
				return ErrConflict
			}
			r.Status = models.RequestDeclined
			return nil
		}
	}
	return ErrConflict
}

func (s *MemoryStore) FriendshipExists(_ context.Context, a, b primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u1, u2 := orderPair(a, b)
	for _, f := range s.friendships {
		if f.User1 == u1 && f.User2 == u2 {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) FriendshipsOf(_ context.Context, user primitive.ObjectID) ([]models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Friendship
	for i := len(s.friendships) - 1; i >= 0; i-- {
		f := s.friendships[i]
		if f.User1 == user || f.User2 == user {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteFriendship(_ context.Context, a, b primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u1, u2 := orderPair(a, b)
	for i, f := range s.friendships {
		if f.User1 == u1 && f.User2 == u2 {
			s.friendships = append(s.friendships[:i], s.friendships[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CountFriendships(_ context.Context, user primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, f := range s.friendships {
		if f.User1 == user || f.User2 == user {
			n++
		}
	}
	return n, nil
}
