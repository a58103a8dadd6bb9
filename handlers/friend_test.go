package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yash-yadav1804/Social-Media-Platform/friends"
	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

// fakeAuth stands in for the JWT middleware and pins the acting user.
func fakeAuth(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID.Hex())
		c.Next()
	}
}

func setupFriendRouter(t *testing.T, actor primitive.ObjectID, store *friends.MemoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewFriendHandler(friends.NewEngine(store))

	r := gin.New()
	group := r.Group("/api/friends", fakeAuth(actor))
	group.POST("/request/:userId", handler.SendRequest)
	group.GET("/requests", handler.ListIncoming)
	group.PUT("/accept/:requestId", handler.Accept)
	group.PUT("/decline/:requestId", handler.Decline)
	group.GET("", handler.ListFriends)
	group.DELETE("/:friendId", handler.Remove)
	group.GET("/status/:userId", handler.Status)
	return r
}

func seedUsers(store *friends.MemoryStore, n int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, n)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
		store.AddUser(models.User{ID: ids[i], Username: "user" + string(rune('a'+i))})
	}
	return ids
}

func TestSendRequestStatusMapping(t *testing.T) {
	store := friends.NewMemoryStore()
	users := seedUsers(store, 2)
	actor := users[0]
	router := setupFriendRouter(t, actor, store)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"malformed id", "not-an-id", http.StatusBadRequest},
		{"self", actor.Hex(), http.StatusBadRequest},
		{"unknown user", primitive.NewObjectID().Hex(), http.StatusNotFound},
		{"valid target", users[1].Hex(), http.StatusCreated},
		{"duplicate", users[1].Hex(), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/friends/request/"+tt.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAcceptEndpointForbiddenForNonRecipient(t *testing.T) {
	store := friends.NewMemoryStore()
	users := seedUsers(store, 3)
	a, b, c := users[0], users[1], users[2]

	sender := setupFriendRouter(t, a, store)
	rec := httptest.NewRecorder()
	sender.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/friends/request/"+b.Hex(), nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Request models.FriendRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	outsider := setupFriendRouter(t, c, store)
	rec = httptest.NewRecorder()
	outsider.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/friends/accept/"+created.Request.ID.Hex(), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	recipient := setupFriendRouter(t, b, store)
	rec = httptest.NewRecorder()
	recipient.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/friends/accept/"+created.Request.ID.Hex(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Accepting again conflicts.
	rec = httptest.NewRecorder()
	recipient.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/friends/accept/"+created.Request.ID.Hex(), nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFriendLifecycleOverHTTP(t *testing.T) {
	store := friends.NewMemoryStore()
	users := seedUsers(store, 2)
	a, b := users[0], users[1]
	routerA := setupFriendRouter(t, a, store)
	routerB := setupFriendRouter(t, b, store)

	rec := httptest.NewRecorder()
	routerA.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/friends/request/"+b.Hex(), nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	routerB.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/friends/requests", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var incoming struct {
		Requests []friends.IncomingRequest `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incoming))
	require.Len(t, incoming.Requests, 1)

	rec = httptest.NewRecorder()
	routerB.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/friends/accept/"+incoming.Requests[0].ID.Hex(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, tc := range []struct {
		router  *gin.Engine
		subject primitive.ObjectID
	}{{routerA, b}, {routerB, a}} {
		rec = httptest.NewRecorder()
		tc.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/friends/status/"+tc.subject.Hex(), nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var status struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "friends", status.Status)
	}

	rec = httptest.NewRecorder()
	routerA.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/friends", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Friends []models.User `json:"friends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Friends, 1)
	assert.Equal(t, b, list.Friends[0].ID)

	rec = httptest.NewRecorder()
	routerA.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/friends/"+b.Hex(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	routerA.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/friends/"+b.Hex(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeclineEndpoint(t *testing.T) {
	store := friends.NewMemoryStore()
	users := seedUsers(store, 2)
	a, b := users[0], users[1]
	routerA := setupFriendRouter(t, a, store)
	routerB := setupFriendRouter(t, b, store)

	rec := httptest.NewRecorder()
	routerA.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/friends/request/"+b.Hex(), nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Request models.FriendRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	routerB.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/friends/decline/"+created.Request.ID.Hex(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// The pair stays blocked after a decline.
	rec = httptest.NewRecorder()
	routerA.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/friends/request/"+b.Hex(), nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
