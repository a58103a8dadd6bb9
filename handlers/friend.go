package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yash-yadav1804/Social-Media-Platform/database"
	"github.com/yash-yadav1804/Social-Media-Platform/friends"
	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

// FriendHandler exposes the relationship engine over HTTP. It owns no state
// beyond the engine reference; every error kind maps to exactly one status.
type FriendHandler struct {
	engine *friends.Engine
}

func NewFriendHandler(engine *friends.Engine) *FriendHandler {
	return &FriendHandler{engine: engine}
}

// writeEngineError translates engine error kinds to transport statuses.
func writeEngineError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, friends.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send friend request to yourself"})
	case errors.Is(err, friends.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, friends.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized for this request"})
	case errors.Is(err, friends.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflicting friend state"})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// SendRequest handles POST /api/friends/request/:userId.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	from, ok := currentUserID(c)
	if !ok {
		return
	}
	to, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	req, err := h.engine.SendRequest(ctx, from, to)
	if err != nil {
		writeEngineError(c, err, "Failed to send friend request")
		return
	}

	go notifyRequestReceived(to, from)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Friend request sent successfully",
		"request": req,
	})
}

// ListIncoming handles GET /api/friends/requests.
func (h *FriendHandler) ListIncoming(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	requests, err := h.engine.IncomingRequests(ctx, user)
	if err != nil {
		writeEngineError(c, err, "Failed to load friend requests")
		return
	}
	if requests == nil {
		requests = []friends.IncomingRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Accept handles PUT /api/friends/accept/:requestId.
func (h *FriendHandler) Accept(c *gin.Context) {
	actor, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, err := primitive.ObjectIDFromHex(c.Param("requestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	friendship, err := h.engine.AcceptRequest(ctx, requestID, actor)
	if err != nil {
		writeEngineError(c, err, "Failed to accept friend request")
		return
	}

	go notifyRequestAccepted(friendship.Other(actor), actor)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Friend request accepted",
		"friendship": friendship,
	})
}

// Decline handles PUT /api/friends/decline/:requestId.
func (h *FriendHandler) Decline(c *gin.Context) {
	actor, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, err := primitive.ObjectIDFromHex(c.Param("requestId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := h.engine.DeclineRequest(ctx, requestID, actor); err != nil {
		writeEngineError(c, err, "Failed to decline friend request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request declined"})
}

// ListFriends handles GET /api/friends.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	list, err := h.engine.Friends(ctx, user)
	if err != nil {
		writeEngineError(c, err, "Failed to load friends")
		return
	}
	if list == nil {
		list = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"friends": list})
}

// Remove handles DELETE /api/friends/:friendId.
func (h *FriendHandler) Remove(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		return
	}
	friendID, err := primitive.ObjectIDFromHex(c.Param("friendId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := h.engine.RemoveFriendship(ctx, user, friendID); err != nil {
		if errors.Is(err, friends.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
			return
		}
		writeEngineError(c, err, "Failed to remove friend")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully"})
}

// Status handles GET /api/friends/status/:userId.
func (h *FriendHandler) Status(c *gin.Context) {
	viewer, ok := currentUserID(c)
	if !ok {
		return
	}
	subject, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	status, err := h.engine.StatusBetween(ctx, viewer, subject)
	if err != nil {
		writeEngineError(c, err, "Failed to resolve friend status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func notifyRequestReceived(to, from primitive.ObjectID) {
	if vapidPrivateKey == "" {
		return
	}
	notifyFriendEvent(to, "New friend request", usernameOf(from)+" sent you a friend request")
}

func notifyRequestAccepted(requester, acceptor primitive.ObjectID) {
	if vapidPrivateKey == "" {
		return
	}
	notifyFriendEvent(requester, "Friend request accepted", usernameOf(acceptor)+" accepted your friend request")
}

// usernameOf resolves a display name for notification bodies; best effort.
func usernameOf(id primitive.ObjectID) string {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil || user.Username == "" {
		return "Someone"
	}
	return user.Username
}
