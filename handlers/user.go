package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yash-yadav1804/Social-Media-Platform/database"
	"github.com/yash-yadav1804/Social-Media-Platform/friends"
	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

// UserHandler serves user search and profiles. It consults the relationship
// engine so every returned user carries the viewer's friend status.
type UserHandler struct {
	engine *friends.Engine
}

func NewUserHandler(engine *friends.Engine) *UserHandler {
	return &UserHandler{engine: engine}
}

// Search handles GET /api/users/search?q=term.
func (h *UserHandler) Search(c *gin.Context) {
	viewer, ok := currentUserID(c)
	if !ok {
		return
	}

	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query must be at least 2 characters long"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pattern := primitive.Regex{Pattern: q, Options: "i"}
	filter := bson.M{
		"_id": bson.M{"$ne": viewer},
		"$or": bson.A{
			bson.M{"username": pattern},
			bson.M{"email": pattern},
		},
	}

	cursor, err := database.Users.Find(ctx, filter, options.Find().SetLimit(10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	results := make([]models.UserWithStatus, 0, len(users))
	for _, u := range users {
		status, err := h.engine.StatusBetween(ctx, viewer, u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve friend status"})
			return
		}
		results = append(results, models.UserWithStatus{User: u, FriendStatus: string(status)})
	}

	c.JSON(http.StatusOK, gin.H{"users": results})
}

// Profile handles GET /api/users/profile/:userId.
func (h *UserHandler) Profile(c *gin.Context) {
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

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": subject}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	status, err := h.engine.StatusBetween(ctx, viewer, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve friend status"})
		return
	}
	count, err := h.engine.FriendCount(ctx, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.UserProfile{
		User:         user,
		FriendStatus: string(status),
		FriendsCount: count,
	}})
}

// UpdateProfile handles PUT /api/users/profile. Accepts multipart form data
// with optional username, email and avatar file.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))

	if username != "" || email != "" {
		var clauses bson.A
		if username != "" {
			clauses = append(clauses, bson.M{"username": username})
		}
		if email != "" {
			clauses = append(clauses, bson.M{"email": email})
		}
		count, err := database.Users.CountDocuments(ctx, bson.M{
			"_id": bson.M{"$ne": userID},
			"$or": clauses,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
	}

	update := bson.M{}
	if username != "" {
		update["username"] = username
	}
	if email != "" {
		update["email"] = email
	}

	if avatarFile, _, err := c.Request.FormFile("avatar"); err == nil {
		defer avatarFile.Close()

		cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary configuration error"})
			return
		}

		uploadResult, err := cld.Upload.Upload(ctx, avatarFile, uploader.UploadParams{
			Folder:         "social/avatars",
			PublicID:       userID.Hex(),
			Transformation: "c_limit,w_400,h_400,q_auto",
		})
		if err != nil {
			log.Printf("Avatar upload error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload avatar"})
			return
		}
		update["avatar"] = uploadResult.SecureURL
	}

	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
