package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/yash-yadav1804/Social-Media-Platform/database"
	"github.com/yash-yadav1804/Social-Media-Platform/models"
)

var googleOAuthConfig *oauth2.Config

// InitGoogleOAuth wires the optional Google sign-in flow. Without the client
// credentials the endpoints answer 503.
func InitGoogleOAuth() {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Println("Google OAuth not configured - set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
		return
	}

	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = "http://localhost:8080/api/auth/google/callback"
	}

	googleOAuthConfig = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
	log.Println("Google OAuth configured")
}

type GoogleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type GoogleAuthRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// GetGoogleAuthURL returns the consent-screen URL for the redirect flow.
func GetGoogleAuthURL(c *gin.Context) {
	if googleOAuthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}

	state := primitive.NewObjectID().Hex()
	url := googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GoogleAuthWithCredential signs a user in from a Google Identity Services
// credential, creating the account on first sight.
func GoogleAuthWithCredential(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, _, err := new(jwt.Parser).ParseUnverified(req.Credential, jwt.MapClaims{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Google credential"})
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Google credential"})
		return
	}

	googleUser := GoogleUserInfo{
		ID:      getStringClaim(claims, "sub"),
		Email:   getStringClaim(claims, "email"),
		Name:    getStringClaim(claims, "name"),
		Picture: getStringClaim(claims, "picture"),
	}
	if googleUser.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not provided by Google"})
		return
	}

	handleGoogleUser(c, googleUser)
}

func getStringClaim(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func handleGoogleUser(c *gin.Context, googleUser GoogleUserInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	isNewUser := false
	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": googleUser.Email}).Decode(&user)
	switch {
	case err == mongo.ErrNoDocuments:
		isNewUser = true
		user = createUserFromGoogle(googleUser)
		if _, err := database.Users.InsertOne(ctx, user); err != nil {
			log.Printf("Google user insert error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	default:
		update := bson.M{"lastLogin": time.Now().Unix()}
		if user.GoogleID == nil && googleUser.ID != "" {
			update["googleId"] = googleUser.ID
		}
		if user.Avatar == "" && googleUser.Picture != "" {
			update["avatar"] = googleUser.Picture
			user.Avatar = googleUser.Picture
		}
		if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": update}); err != nil {
			log.Printf("Google user update error: %v", err)
		}
	}

	tokenString, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Authentication successful",
		"token":     tokenString,
		"user":      user,
		"isNewUser": isNewUser,
	})
}

func createUserFromGoogle(googleUser GoogleUserInfo) models.User {
	now := time.Now().Unix()
	return models.User{
		ID:           primitive.NewObjectID(),
		Username:     generateUsernameFromEmail(googleUser.Email),
		Email:        googleUser.Email,
		PasswordHash: nil, // Google accounts have no local password
		AuthProvider: "google",
		GoogleID:     &googleUser.ID,
		Avatar:       googleUser.Picture,
		CreatedAt:    now,
		LastLogin:    now,
	}
}

// generateUsernameFromEmail builds a username from the local part of the
// email plus a short random suffix so the unique index never trips on a
// shared local part.
func generateUsernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	local = strings.ToLower(strings.ReplaceAll(local, ".", ""))
	return local + "_" + primitive.NewObjectID().Hex()[:6]
}
